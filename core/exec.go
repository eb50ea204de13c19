package core

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(fsys afero.Fs, file string) error {
	d, err := fsys.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// path, a colon separated list. If file contains a slash, it is tried directly
// and path is not consulted. Relative paths are resolved against dir for the
// search but returned as they were found.
//
// If file exists somewhere but isn't executable the error wraps
// fs.ErrPermission, otherwise it's ErrNotFound.
func LookPath(fsys afero.Fs, dir, path, file string) (string, error) {
	resolve := func(p string) string {
		if filepath.IsAbs(p) || dir == "" {
			return p
		}
		return filepath.Join(dir, p)
	}

	if file == "" {
		return "", &fs.PathError{Op: "exec", Path: file, Err: ErrNotFound}
	}

	if strings.Contains(file, "/") {
		err := findExecutable(fsys, resolve(file))
		switch {
		case err == nil:
			return file, nil
		case errors.Is(err, fs.ErrNotExist):
			return "", &fs.PathError{Op: "exec", Path: file, Err: ErrNotFound}
		default:
			return "", &fs.PathError{Op: "exec", Path: file, Err: fs.ErrPermission}
		}
	}

	var denied bool
	for _, elem := range filepath.SplitList(path) {
		if elem == "" {
			// Unix shell semantics: path element "" means "."
			elem = "."
		}
		candidate := filepath.Join(elem, file)
		if elem == "." {
			candidate = "./" + file
		}
		err := findExecutable(fsys, resolve(candidate))
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			denied = true
		}
	}

	if denied {
		return "", &fs.PathError{Op: "exec", Path: file, Err: fs.ErrPermission}
	}
	return "", &fs.PathError{Op: "exec", Path: file, Err: ErrNotFound}
}
