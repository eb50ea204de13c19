package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. Values missing from the
// file, or the whole file, fall back to the defaults.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	cfg, err := LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path))
	if err != nil {
		return nil, err
	}
	cfg.configDir = path
	return cfg, nil
}

// LoadFs loads the configuration from the root of configFs.
func LoadFs(configFs afero.Fs) (*Configuration, error) {
	out := Default()
	out.configFs = configFs

	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return out, nil
	case err != nil:
		return nil, err
	}

	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	return out, nil
}

// Initialize creates the configuration directory and writes the default
// configuration into it. An existing configuration is left untouched.
func Initialize(path string, logger *log.Logger) error {
	return InitializeFs(afero.NewOsFs(), path, logger)
}

// InitializeFs is Initialize on an arbitrary filesystem.
func InitializeFs(fsys afero.Fs, path string, logger *log.Logger) error {
	logger.Printf("Creating configuration directory %q\n", path)
	if err := fsys.MkdirAll(path, 0700); err != nil {
		return err
	}

	configPath := filepath.Join(path, ConfigurationName)
	switch exists, err := afero.Exists(fsys, configPath); {
	case err != nil:
		return err
	case exists:
		logger.Printf("Configuration %q already exists, skipping\n", configPath)
		return nil
	}

	logger.Printf("Writing default configuration to %q\n", configPath)
	return afero.WriteFile(fsys, configPath, defaultConfigData, 0600)
}
