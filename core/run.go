package core

import (
	"strings"

	"github.com/josephlewis42/stush/core/shell"
)

// RunLine tokenizes and runs a single line of input. A line that can't be
// tokenized runs nothing and has status 2.
func (s *Shell) RunLine(line string) Status {
	tokens, err := shell.Tokenize(line, s.delimiters)
	if err != nil {
		s.Errorf("%v", err)
		s.lastStatus = statusSyntaxError
		s.recordError(line, err)
		return s.lastStatus
	}

	status := s.RunCompound(tokens)
	if len(tokens) > 0 {
		if err := s.events.RecordLine(line, status.Code()); err != nil {
			s.log.Printf("couldn't record line: %v", err)
		}
	}
	return status
}

// RunCompound runs each segment separated by ";" or newlines in order. A
// segment with a syntax error is reported, gets status 2 and is skipped.
//
// If there's nothing to run the status of the previous command is kept.
func (s *Shell) RunCompound(tokens []shell.Token) Status {
	for _, segment := range shell.SplitCompound(tokens) {
		if s.quit {
			break
		}

		if err := shell.Validate(segment); err != nil {
			s.Errorf("%v", err)
			s.lastStatus = statusSyntaxError
			s.recordError(joinTokens(segment), err)
			continue
		}

		list, _ := shell.SplitList(segment)
		s.RunList(list)
	}

	return s.lastStatus
}

// RunList runs pipelines joined by "&&" and "||". After a pipeline followed
// by "&&" fails, or one followed by "||" succeeds, the rest are skipped.
// The status is that of the last pipeline run.
func (s *Shell) RunList(segments []shell.ListSegment) Status {
	for _, segment := range segments {
		pipeline, err := shell.SplitPipeline(segment.Tokens, s.Expander())
		if err != nil {
			s.Errorf("%v", err)
			s.lastStatus = statusSyntaxError
			s.recordError(joinTokens(segment.Tokens), err)
			return s.lastStatus
		}

		status := s.RunPipeline(pipeline)
		s.lastStatus = status
		s.recordPipeline(pipeline, status)

		if s.quit {
			break
		}

		switch segment.Combinator {
		case shell.AndThen:
			if !status.Success() {
				return status
			}
		case shell.OrElse:
			if status.Success() {
				return status
			}
		}
	}

	return s.lastStatus
}

func (s *Shell) recordPipeline(p shell.Pipeline, status Status) {
	if s.events == nil {
		return
	}

	var stages [][]string
	for _, stage := range p {
		stages = append(stages, stage.Words)
	}
	if err := s.events.RecordPipeline(stages, status.Code()); err != nil {
		s.log.Printf("couldn't record pipeline: %v", err)
	}
}

func (s *Shell) recordError(line string, err error) {
	if recErr := s.events.RecordError(line, err, s.lastStatus.Code()); recErr != nil {
		s.log.Printf("couldn't record error: %v", recErr)
	}
}

func joinTokens(tokens []shell.Token) string {
	return strings.Join(shell.Strings(tokens), " ")
}
