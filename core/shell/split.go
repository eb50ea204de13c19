package shell

// OutputMode says which streams of a stage feed the next stage.
type OutputMode int

const (
	// StdoutOnly is set by "|".
	StdoutOnly OutputMode = iota
	// StdoutAndStderr is set by "|&".
	StdoutAndStderr
)

// Combinator joins a list segment to the one after it.
type Combinator int

const (
	// End marks the last segment of a list.
	End Combinator = iota
	// AndThen continues only if the segment succeeded ("&&").
	AndThen
	// OrElse continues only if the segment failed ("||").
	OrElse
)

func (c Combinator) String() string {
	switch c {
	case AndThen:
		return OpAnd
	case OrElse:
		return OpOr
	default:
		return ""
	}
}

// ListSegment is a pipeline's tokens and the combinator following it.
type ListSegment struct {
	Tokens     []Token
	Combinator Combinator
}

// Stage is a single command of a pipeline. Words[0] is the command name.
type Stage struct {
	Words []string
	// Mode is taken from the operator after the stage. It is ignored for the
	// last stage.
	Mode OutputMode
}

// Pipeline holds at least one stage.
type Pipeline []Stage

// SplitCompound splits tokens on ";" and newlines. Empty segments are
// dropped. The returned segments share memory with tokens.
func SplitCompound(tokens []Token) [][]Token {
	var out [][]Token

	start := 0
	for i, tok := range tokens {
		if tok.Kind != Semicolon && tok.Kind != Newline {
			continue
		}
		if i > start {
			out = append(out, tokens[start:i])
		}
		start = i + 1
	}
	if start < len(tokens) {
		out = append(out, tokens[start:])
	}

	return out
}

// SplitList splits tokens on "&&" and "||", recording the operator that
// follows each pipeline. A missing command around an operator is an error.
func SplitList(tokens []Token) ([]ListSegment, error) {
	var out []ListSegment

	start := 0
	for i, tok := range tokens {
		var combinator Combinator
		switch tok.Kind {
		case And:
			combinator = AndThen
		case Or:
			combinator = OrElse
		default:
			continue
		}

		if i == start {
			return nil, &MissingCommandError{Where: "list"}
		}
		out = append(out, ListSegment{Tokens: tokens[start:i], Combinator: combinator})
		start = i + 1
	}

	if start >= len(tokens) {
		return nil, &MissingCommandError{Where: "list"}
	}
	out = append(out, ListSegment{Tokens: tokens[start:], Combinator: End})

	return out, nil
}

// SplitPipeline splits tokens on "|" and "|&" and expands the words of each
// stage as soon as it's isolated. If expander is nil the words are kept as
// they are.
func SplitPipeline(tokens []Token, expander WordExpander) (Pipeline, error) {
	var out Pipeline
	var words []string

	addStage := func(mode OutputMode) error {
		if len(words) == 0 {
			return &MissingCommandError{Where: "pipeline"}
		}
		if expander != nil {
			words = expander.Expand(words)
			if len(words) == 0 {
				return &MissingCommandError{Where: "pipeline"}
			}
		}
		out = append(out, Stage{Words: words, Mode: mode})
		words = nil
		return nil
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case Word:
			words = append(words, tok.Text)
		case Pipe:
			if err := addStage(StdoutOnly); err != nil {
				return nil, err
			}
		case PipeBoth:
			if err := addStage(StdoutAndStderr); err != nil {
				return nil, err
			}
		default:
			return nil, &UnsupportedOperatorError{Op: tok.Text}
		}
	}

	if err := addStage(StdoutOnly); err != nil {
		return nil, err
	}

	return out, nil
}
