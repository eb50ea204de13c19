package expand

import (
	"strings"
)

const (
	varPrefix  = '$'
	escapeChar = '\\'

	// nameSeparators end a variable name.
	nameSeparators = ` \/$:;-+[]{}()'"?*`
)

// specialParams can follow "$" directly even though they separate names.
const specialParams = "?$"

// ExpandVariables replaces each "$NAME" in word with its value. NAME is the
// longest run of characters that aren't name separators.
//
// A backslash is removed and the character after it is kept as it is, so
// "\$HOME" becomes "$HOME". A "$" not followed by a name is kept.
func (e *Expander) ExpandVariables(word string) string {
	if !strings.ContainsAny(word, `$\`) {
		return word
	}

	// Every special character is ASCII, so bytes are scanned and anything
	// else, including invalid UTF-8, is copied through untouched.
	var out strings.Builder
	for i := 0; i < len(word); i++ {
		c := word[i]

		if c == escapeChar {
			if i+1 < len(word) {
				i++
				out.WriteByte(word[i])
			}
			continue
		}

		if c != varPrefix {
			out.WriteByte(c)
			continue
		}

		if i+1 < len(word) && strings.IndexByte(specialParams, word[i+1]) >= 0 {
			if val, ok := e.special(word[i+1 : i+2]); ok {
				out.WriteString(val)
				i++
				continue
			}
		}

		end := i + 1
		for end < len(word) && strings.IndexByte(nameSeparators, word[end]) < 0 {
			end++
		}

		if end == i+1 {
			out.WriteByte(c)
			continue
		}

		out.WriteString(e.Lookup(word[i+1 : end]))
		i = end - 1
	}

	return out.String()
}

// Lookup resolves a variable name, checking the environment before the
// shell variables. Unknown names resolve to the empty string.
func (e *Expander) Lookup(name string) string {
	if e.Env != nil {
		if val, ok := e.Env.LookupEnv(name); ok {
			return val
		}
	}
	if e.Vars != nil {
		return e.Vars.Get(name)
	}
	return ""
}

func (e *Expander) special(name string) (string, bool) {
	if e.Special == nil {
		return "", false
	}
	return e.Special(name)
}
