package core

import (
	"bufio"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/abiosoft/readline"
)

// InteractiveOptions configures the interactive loop.
type InteractiveOptions struct {
	// Prompt is the template passed to Prompt before every line.
	Prompt string
	// HistoryFile persists the line history if set.
	HistoryFile string
}

// RunInteractive reads lines from a terminal with line editing and runs them
// until the input ends or exit is run. It returns the code the shell should
// exit with.
//
// The shell survives SIGINT; the commands it starts still receive it.
func (s *Shell) RunInteractive(opts InteractiveOptions) (int, error) {
	cfg := &readline.Config{
		Prompt:          s.Prompt(opts.Prompt),
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           readline.NewCancelableStdin(s.stdin),
		Stdout:          s.stdout,
		Stderr:          s.stderr,
	}
	if err := cfg.Init(); err != nil {
		return 1, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return 1, err
	}
	defer rl.Close()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			s.log.Printf("interrupted")
		}
	}()

	for {
		if quit, code := s.Quit(); quit {
			return code, nil
		}

		rl.SetPrompt(s.Prompt(opts.Prompt))
		line, err := rl.Readline()
		switch {
		case err == io.EOF:
			return s.lastStatus.Code(), nil
		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue
		case err != nil:
			s.log.Printf("readline: %v", err)
			return 1, err
		case strings.TrimSpace(line) == "":
			continue
		default:
			s.RunLine(line)
		}
	}
}

// maxScriptLine is the longest line RunScript accepts.
const maxScriptLine = 16 * 1024 * 1024

// RunScript runs every line read from r. Lines starting with # are skipped.
// It returns the code the shell should exit with, which is the status of the
// last line run unless exit was called.
func (s *Shell) RunScript(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxScriptLine)
	for scanner.Scan() {
		if quit, code := s.Quit(); quit {
			return code, nil
		}

		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		s.RunLine(line)
	}
	if err := scanner.Err(); err != nil {
		return 1, err
	}

	if quit, code := s.Quit(); quit {
		return code, nil
	}
	return s.lastStatus.Code(), nil
}

// RunCommand runs a single line and returns the code the shell should exit
// with.
func (s *Shell) RunCommand(line string) int {
	status := s.RunLine(line)
	if quit, code := s.Quit(); quit {
		return code
	}
	return status.Code()
}
