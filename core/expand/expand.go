// Package expand implements word expansion for a single pipeline stage.
//
// Every word goes through the same steps in order:
//
//  1. Words entirely wrapped in single quotes are left alone.
//  2. A leading "~" or "~name" is replaced with a home directory.
//  3. "$NAME" is replaced with the value of NAME from the environment, or
//     the shell variables if the environment doesn't have it.
//  4. Words containing "*" are replaced with the paths they match.
//  5. A matching pair of outer quotes is removed.
//
// Globbing runs over the whole stage after steps 2 and 3 have been applied
// to every word so matches keep their position in the argument list.
package expand

import (
	"os/user"

	"github.com/josephlewis42/stush/core/vars"
	"github.com/spf13/afero"
)

// Expander expands the words of a stage. The zero value expands variables
// to empty strings, uses the OS filesystem relative to the process working
// directory and looks up accounts through os/user.
type Expander struct {
	// Env is consulted first for variables and for HOME.
	Env vars.Env
	// Vars holds shell variables, consulted when Env doesn't have a name.
	Vars *vars.Store
	// Fs is searched by globs.
	Fs afero.Fs
	// Dir returns the directory relative globs are matched in.
	Dir func() string
	// LookupHome returns the home directory of the named account.
	LookupHome func(name string) (string, bool)
	// Special resolves parameters like "?" and "$" that can't be set by name.
	Special func(name string) (string, bool)
}

// Expand runs every expansion step over words and returns a new slice. The
// result may be longer than words if globs matched multiple paths.
func (e *Expander) Expand(words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		if isSingleQuoted(word) {
			out = append(out, word)
			continue
		}

		word = e.ExpandTilde(word)
		word = e.ExpandVariables(word)
		out = append(out, word)
	}

	out = e.ExpandGlobs(out)
	StripAllQuotes(out)

	return out
}

func (e *Expander) fs() afero.Fs {
	if e.Fs == nil {
		return afero.NewOsFs()
	}
	return e.Fs
}

func (e *Expander) dir() string {
	if e.Dir == nil {
		return ""
	}
	return e.Dir()
}

func (e *Expander) lookupHome(name string) (string, bool) {
	if e.LookupHome != nil {
		return e.LookupHome(name)
	}
	return LookupUserHome(name)
}

// LookupUserHome finds the home directory of an account in the system
// database.
func LookupUserHome(name string) (string, bool) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", false
	}
	return u.HomeDir, true
}
