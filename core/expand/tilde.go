package expand

import "strings"

// ExpandTilde replaces a leading "~" with HOME and a leading "~name" with
// the home directory of account name.
//
// The word is returned unchanged if HOME isn't set, the account doesn't
// exist or its home is empty. An account whose home is "/" swallows the
// slash following the name so "~nobody/" becomes "/" rather than "//".
func (e *Expander) ExpandTilde(word string) string {
	if !strings.HasPrefix(word, "~") {
		return word
	}

	prefixEnd := strings.IndexByte(word, '/')
	if prefixEnd < 0 {
		prefixEnd = len(word)
	}

	if prefixEnd == 1 {
		if e.Env == nil {
			return word
		}
		home, ok := e.Env.LookupEnv("HOME")
		if !ok {
			return word
		}
		return home + word[1:]
	}

	home, ok := e.lookupHome(word[1:prefixEnd])
	switch {
	case !ok || home == "":
		return word
	case home == "/" && prefixEnd < len(word):
		return home + word[prefixEnd+1:]
	default:
		return home + word[prefixEnd:]
	}
}
