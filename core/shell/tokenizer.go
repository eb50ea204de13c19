package shell

import (
	"strings"
	"unicode/utf8"
)

// DefaultDelimiters separate words when no other set is configured.
const DefaultDelimiters = " \t"

const (
	escapeChar  = '\\'
	commentChar = '#'
	singleQuote = '\''
	doubleQuote = '"'
)

type scanState int

const (
	stateRegular scanState = iota
	stateEscaped
	stateSingleQuoted
	stateDoubleQuoted
)

// tokenizer holds the state for a single line. The scan states form a stack
// so quotes of either kind can nest inside each other.
type tokenizer struct {
	delimiters string
	states     []scanState
	current    strings.Builder
	tokens     []Token
}

// Tokenize splits line into words and operators.
//
// Words keep their quote characters, stripping them is left to the expander.
// A backslash escapes exactly one following character in any state and is
// removed. Outside of quotes delimiter characters end a word, "#" ends the
// line and ";", newline, "|", "||", "|&", "&" and "&&" become operator
// tokens of their own even when they touch a word.
//
// ErrQuoteMismatch is returned if the line ends inside a quote.
func Tokenize(line string, delimiters string) ([]Token, error) {
	t := &tokenizer{
		delimiters: delimiters,
		states:     []scanState{stateRegular},
	}

	chars := splitChars(line)
	for i := 0; i < len(chars); i++ {
		c := chars[i].r

		if t.top() == stateEscaped {
			t.current.WriteString(chars[i].text)
			t.pop()
			continue
		}

		if c == escapeChar {
			t.push(stateEscaped)
			continue
		}

		switch t.top() {
		case stateSingleQuoted:
			t.handleQuoted(chars[i], singleQuote)
			continue
		case stateDoubleQuoted:
			t.handleQuoted(chars[i], doubleQuote)
			continue
		}

		switch {
		case c == singleQuote:
			t.push(stateSingleQuoted)
			t.current.WriteRune(c)

		case c == doubleQuote:
			t.push(stateDoubleQuoted)
			t.current.WriteRune(c)

		case c == commentChar:
			t.flush()
			return t.tokens, nil

		case strings.ContainsRune(t.delimiters, c):
			t.flush()

		case c == ';' || c == '\n' || c == '|' || c == '&':
			if t.current.Len() > 0 {
				// Close the word and look at the operator again from a fresh
				// token start.
				t.flush()
				i--
				continue
			}
			i += t.operator(chars, i) - 1

		default:
			t.current.WriteString(chars[i].text)
		}
	}

	if t.top() == stateEscaped {
		// Nothing left to escape, keep the backslash.
		t.current.WriteRune(escapeChar)
		t.pop()
	}

	if len(t.states) > 1 {
		return nil, ErrQuoteMismatch
	}

	t.flush()
	return t.tokens, nil
}

// char is one decoded character and the bytes it was decoded from. Invalid
// UTF-8 decodes one byte at a time as utf8.RuneError but keeps its byte.
type char struct {
	r    rune
	text string
}

func splitChars(line string) []char {
	out := make([]char, 0, len(line))
	for len(line) > 0 {
		r, size := utf8.DecodeRuneInString(line)
		out = append(out, char{r: r, text: line[:size]})
		line = line[size:]
	}
	return out
}

// handleQuoted processes a character inside a quote of the given kind.
func (t *tokenizer) handleQuoted(c char, quote rune) {
	switch c.r {
	case quote:
		t.pop()
	case singleQuote:
		t.push(stateSingleQuoted)
	case doubleQuote:
		t.push(stateDoubleQuoted)
	}
	t.current.WriteString(c.text)
}

// operator pushes the operator starting at chars[start] and returns how many
// characters it used.
func (t *tokenizer) operator(chars []char, start int) int {
	c := chars[start].r
	var next rune
	if start+1 < len(chars) {
		next = chars[start+1].r
	}

	op := string(c)
	switch {
	case c == '|' && (next == '|' || next == '&'):
		op += string(next)
	case c == '&' && next == '&':
		op += string(next)
	}

	t.tokens = append(t.tokens, NewOperator(op))
	return len(op)
}

func (t *tokenizer) flush() {
	if t.current.Len() == 0 {
		return
	}
	t.tokens = append(t.tokens, NewWord(t.current.String()))
	t.current.Reset()
}

func (t *tokenizer) top() scanState {
	return t.states[len(t.states)-1]
}

func (t *tokenizer) push(s scanState) {
	t.states = append(t.states, s)
}

func (t *tokenizer) pop() {
	if len(t.states) > 1 {
		t.states = t.states[:len(t.states)-1]
	}
}
