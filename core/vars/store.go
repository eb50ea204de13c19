// Package vars holds the shell's variables: the store of shell-local
// variables and the environment handed to child processes.
package vars

import (
	"sort"
	"sync"
)

// Store holds shell variables. Unlike the environment they're never passed
// to child processes. The zero value is an empty store ready to use.
type Store struct {
	rw   sync.RWMutex
	vars map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Set creates or replaces a variable.
func (s *Store) Set(name, value string) {
	s.rw.Lock()
	defer s.rw.Unlock()

	if s.vars == nil {
		s.vars = make(map[string]string)
	}
	s.vars[name] = value
}

// IsSet reports whether the variable exists, even if it's empty.
func (s *Store) IsSet(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup returns the variable's value and whether it exists.
func (s *Store) Lookup(name string) (string, bool) {
	s.rw.RLock()
	defer s.rw.RUnlock()

	val, ok := s.vars[name]
	return val, ok
}

// Get returns the variable's value or the empty string if it doesn't exist.
func (s *Store) Get(name string) string {
	val, _ := s.Lookup(name)
	return val
}

// Unset removes the variable, returning true if it existed.
func (s *Store) Unset(name string) bool {
	s.rw.Lock()
	defer s.rw.Unlock()

	_, ok := s.vars[name]
	delete(s.vars, name)
	return ok
}

// Names returns the sorted names of all variables.
func (s *Store) Names() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()

	var out []string
	for name := range s.vars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	s.rw.RLock()
	defer s.rw.RUnlock()

	out := &Store{vars: make(map[string]string, len(s.vars))}
	for k, v := range s.vars {
		out.vars[k] = v
	}
	return out
}
