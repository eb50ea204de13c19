package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	AppLogName        = "app.log"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Configuration struct {
	configFs  afero.Fs
	configDir string

	Prompt      string `json:"prompt"`
	Delimiters  string `json:"delimiters" validate:"required"`
	Color       string `json:"color" validate:"oneof=auto always never"`
	HistoryFile string `json:"history_file"`
	EventLog    string `json:"event_log"`
	DefaultPath string `json:"default_path" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewMemMapFs()
	}
	return c.configFs
}

// ShouldColor reports whether output should be colored given whether it's
// going to a terminal.
func (c *Configuration) ShouldColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// HistoryPath is the absolute path of the history file, or empty if history
// is disabled.
func (c *Configuration) HistoryPath() string {
	return c.resolve(c.HistoryFile)
}

func (c *Configuration) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || c.configDir == "" {
		return name
	}
	return filepath.Join(c.configDir, name)
}

// OpenEventLog opens the event log in an append only state. It returns nil if
// the event log is disabled.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, nil
	}
	return c.eventLogFs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, os.ErrNotExist
	}
	return c.eventLogFs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// eventLogFs resolves absolute event log paths outside the configuration
// directory.
func (c *Configuration) eventLogFs() afero.Fs {
	if filepath.IsAbs(c.EventLog) && c.configDir != "" {
		return afero.NewOsFs()
	}
	return c.fs()
}

// AppLogPath is the path of the application log.
func (c *Configuration) AppLogPath() string {
	return c.resolve(AppLogName)
}

// OpenAppLog opens the application log in an append only state. It holds
// the shell's diagnostic messages.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// Default returns the built in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
