package expand

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	globChar = "*"
	globMeta = `*?[\`
)

// ExpandGlobs replaces each word containing "*" with the paths it matches.
// The first match takes the word's place and the rest follow it in the
// order the filesystem returned them. Words that match nothing, quoted
// words and invalid patterns are kept as they are.
func (e *Expander) ExpandGlobs(words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		if !strings.Contains(word, globChar) || IsQuoted(word) {
			out = append(out, word)
			continue
		}

		matches := e.glob(word)
		if len(matches) == 0 {
			out = append(out, word)
			continue
		}
		out = append(out, matches...)
	}

	return out
}

func (e *Expander) glob(pattern string) []string {
	prefix := literalPrefix(pattern)
	lookup, base := pattern, prefix
	if dir := e.dir(); dir != "" && !filepath.IsAbs(pattern) {
		lookup = filepath.Join(dir, pattern)
		base = filepath.Join(dir, prefix)
	}

	matches, err := afero.Glob(e.fs(), lookup)
	if err != nil {
		return nil
	}

	// afero cleans the matches, put back the pattern's own leading
	// directories so "./*.txt" gives "./a.txt".
	base = filepath.Clean(base)
	for i, match := range matches {
		if rel, err := filepath.Rel(base, match); err == nil {
			matches[i] = prefix + rel
		}
	}
	return matches
}

// literalPrefix is the part of pattern up to and including the last slash
// before the first metacharacter.
func literalPrefix(pattern string) string {
	meta := strings.IndexAny(pattern, globMeta)
	if meta < 0 {
		meta = len(pattern)
	}
	return pattern[:strings.LastIndex(pattern[:meta], "/")+1]
}
