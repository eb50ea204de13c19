package shell

import (
	"errors"
	"fmt"
)

// ErrQuoteMismatch is returned by Tokenize if the line ends inside a quote.
var ErrQuoteMismatch = errors.New("quote marks mismatch")

// MissingCommandError is returned when an operator has no command on one of
// its sides.
type MissingCommandError struct {
	// Where is the level the command was missing from: "list" or "pipeline".
	Where string
}

func (e *MissingCommandError) Error() string {
	return fmt.Sprintf("missing command in %s", e.Where)
}

// UnsupportedOperatorError is returned for operators that are tokenized but
// can't be executed, like a lone "&".
type UnsupportedOperatorError struct {
	Op string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("syntax error near unexpected token %q", e.Op)
}
