// Package shell turns a raw input line into the command tree the shell runs.
package shell

// Loosely follows
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html

/**
1. The shell breaks the input into tokens: words and operators; see Tokenize.
Quote characters stay in the words, escape characters are removed.

2. The token stream is split on ";" and newlines into compound segments
(SplitCompound). Empty segments are dropped.

3. Each compound segment is split on "&&" and "||" into list segments
(SplitList). Each list segment remembers the operator that follows it.

4. Each list segment is split on "|" and "|&" into pipeline stages
(SplitPipeline). The words of each stage are expanded as soon as the stage
is isolated: see package expand.

5. The stages are executed by the caller and the exit status of the last
stage becomes the status of the pipeline.
**/

// WordExpander expands the raw words of a single pipeline stage.
type WordExpander interface {
	Expand(words []string) []string
}

// Validate checks the list and pipeline structure of a compound segment
// without expanding any words so syntax errors can be reported before any
// part of the segment runs.
func Validate(tokens []Token) error {
	for _, tok := range tokens {
		if tok.Kind == Amp {
			return &UnsupportedOperatorError{Op: tok.Text}
		}
	}

	segments, err := SplitList(tokens)
	if err != nil {
		return err
	}
	for _, seg := range segments {
		if _, err := SplitPipeline(seg.Tokens, nil); err != nil {
			return err
		}
	}
	return nil
}
