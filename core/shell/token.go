package shell

// Kind identifies what a Token represents.
type Kind int

const (
	// Word is a literal word, possibly still holding its quote characters.
	Word Kind = iota
	// Newline separates compound segments like Semicolon.
	Newline
	Semicolon
	And
	Or
	Pipe
	PipeBoth
	// Amp is a lone "&". It is tokenized so that it is never glued to a word,
	// but background execution isn't supported.
	Amp
)

// Operator texts, these are stable and other packages may depend on them.
const (
	OpNewline   = "\n"
	OpSemicolon = ";"
	OpAnd       = "&&"
	OpOr        = "||"
	OpPipe      = "|"
	OpPipeBoth  = "|&"
	OpAmp       = "&"
)

var operatorKinds = map[string]Kind{
	OpNewline:   Newline,
	OpSemicolon: Semicolon,
	OpAnd:       And,
	OpOr:        Or,
	OpPipe:      Pipe,
	OpPipeBoth:  PipeBoth,
	OpAmp:       Amp,
}

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Newline:
		return "newline"
	case Semicolon:
		return "semicolon"
	case And:
		return "and"
	case Or:
		return "or"
	case Pipe:
		return "pipe"
	case PipeBoth:
		return "pipe-both"
	case Amp:
		return "amp"
	default:
		return "unknown"
	}
}

// Token is one element of the flat stream produced by Tokenize.
type Token struct {
	Kind Kind
	Text string
}

// NewWord creates a word token.
func NewWord(text string) Token {
	return Token{Kind: Word, Text: text}
}

// NewOperator creates an operator token from its text. Text that isn't an
// operator produces a word.
func NewOperator(text string) Token {
	if kind, ok := operatorKinds[text]; ok {
		return Token{Kind: kind, Text: text}
	}
	return NewWord(text)
}

// IsOperator returns true if the token isn't a word.
func (t Token) IsOperator() bool {
	return t.Kind != Word
}

func (t Token) String() string {
	return t.Text
}

// Strings returns the text of each token.
func Strings(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Text)
	}
	return out
}
