package vars

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Env is a process environment. Commands started by the shell inherit it.
type Env interface {
	// Getenv retrieves the value of the environment variable named by the key.
	// It returns the value, which will be empty if the variable is not present.
	Getenv(key string) string

	// LookupEnv retrieves the value of the environment variable named by the
	// key. The boolean is false if the variable isn't present.
	LookupEnv(key string) (string, bool)

	// Setenv sets the value of the environment variable named by the key.
	Setenv(key, value string) error

	// Unsetenv unsets a single environment variable.
	Unsetenv(key string) error

	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string
}

// OSEnv is the environment of the running process.
type OSEnv struct{}

var _ Env = OSEnv{}

// Getenv implements Env.Getenv.
func (OSEnv) Getenv(key string) string { return os.Getenv(key) }

// LookupEnv implements Env.LookupEnv.
func (OSEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// Setenv implements Env.Setenv.
func (OSEnv) Setenv(key, value string) error { return os.Setenv(key, value) }

// Unsetenv implements Env.Unsetenv.
func (OSEnv) Unsetenv(key string) error { return os.Unsetenv(key) }

// Environ implements Env.Environ.
func (OSEnv) Environ() []string { return os.Environ() }

// splitEnv splits a "key=value" entry. Entries without "=" get an empty value.
func splitEnv(entry string) (key, value string) {
	split := strings.SplitN(entry, "=", 2)
	key = split[0]
	if len(split) > 1 {
		value = split[1]
	}
	return
}

// CopyEnv copies all the "key=value" entries in environ to dst.
func CopyEnv(dst Env, environ []string) error {
	for _, e := range environ {
		key, value := splitEnv(e)
		if err := dst.Setenv(key, value); err != nil {
			return fmt.Errorf("copying %q: %w", key, err)
		}
	}

	return nil
}

// NewMapEnv creates a new environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates a new environment holding the "key=value"
// entries of environ.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}

	// Setenv never fails for MapEnv.
	_ = CopyEnv(out, environ)

	return out
}

// MapEnv is an in-memory Env, safe for concurrent use.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

var _ Env = (*MapEnv)(nil)

// Unsetenv implements Env.Unsetenv.
func (m *MapEnv) Unsetenv(key string) error {
	m.rw.Lock()
	defer m.rw.Unlock()

	delete(m.env, key)
	return nil
}

// Setenv implements Env.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return fmt.Errorf("setenv: invalid name %q", key)
	}

	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// LookupEnv implements Env.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv implements Env.Getenv.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Environ implements Env.Environ. Entries are sorted by key.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	var env []string
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}
