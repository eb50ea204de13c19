package expand

// IsQuoted reports whether word starts and ends with the same quote
// character and is longer than one character.
func IsQuoted(word string) bool {
	if len(word) < 2 {
		return false
	}
	first := word[0]
	return (first == '\'' || first == '"') && word[len(word)-1] == first
}

// StripQuotes removes one pair of matching outer quotes from word.
func StripQuotes(word string) string {
	if !IsQuoted(word) {
		return word
	}
	return word[1 : len(word)-1]
}

// StripAllQuotes runs StripQuotes on every word in place.
func StripAllQuotes(words []string) {
	for i, word := range words {
		words[i] = StripQuotes(word)
	}
}

func isSingleQuoted(word string) bool {
	return IsQuoted(word) && word[0] == '\''
}
