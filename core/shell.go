package core

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/josephlewis42/stush/core/expand"
	"github.com/josephlewis42/stush/core/logger"
	"github.com/josephlewis42/stush/core/shell"
	"github.com/josephlewis42/stush/core/vars"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

const (
	EnvHome     = "HOME"
	EnvPWD      = "PWD"
	EnvPath     = "PATH"
	EnvUser     = "USER"
	EnvHostname = "HOSTNAME"

	// DefaultPath is searched for commands when PATH isn't set.
	DefaultPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

	shellName = "stush"
)

// Options configures a Shell. Every field is optional.
type Options struct {
	// Standard streams of the shell, inherited by every command. They default
	// to the streams of the process.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Env is the environment passed to commands, defaults to the process
	// environment.
	Env vars.Env
	// Vars holds the shell variables.
	Vars *vars.Store
	// Dir is the starting working directory, defaults to the process's.
	Dir string
	// Fs is used to look up commands and expand globs, defaults to the OS.
	Fs afero.Fs

	// Delimiters separate words, defaults to shell.DefaultDelimiters.
	Delimiters string
	// DefaultPath is searched when PATH isn't set in Env.
	DefaultPath string
	// Builtins are run in-process, defaults to AllBuiltins.
	Builtins Builtins
	// LookupHome resolves "~name", defaults to the system user database.
	LookupHome func(name string) (string, bool)

	// Logger receives diagnostic messages, defaults to discarding them.
	Logger *log.Logger
	// Events records every executed line if set.
	Events *logger.Recorder
	// Color highlights error messages and selects the colored default
	// prompt.
	Color bool
}

// Shell executes command lines. A Shell isn't safe for concurrent use, but
// builtins running inside pipelines get their own copy.
type Shell struct {
	stdin  *os.File
	stdout *os.File
	stderr *os.File

	env        vars.Env
	vars       *vars.Store
	dir        string
	fs         afero.Fs
	delimiters string
	path       string
	builtins   Builtins
	lookupHome func(name string) (string, bool)

	log      *log.Logger
	events   *logger.Recorder
	errColor *color.Color
	color    bool

	lastStatus Status
	pid        int

	// quit is set by the exit builtin.
	quit     bool
	exitCode int
}

// NewShell creates a shell from the options.
func NewShell(opts Options) (*Shell, error) {
	s := &Shell{
		stdin:      opts.Stdin,
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		env:        opts.Env,
		vars:       opts.Vars,
		dir:        opts.Dir,
		fs:         opts.Fs,
		delimiters: opts.Delimiters,
		path:       opts.DefaultPath,
		builtins:   opts.Builtins,
		lookupHome: opts.LookupHome,
		log:        opts.Logger,
		events:     opts.Events,
		pid:        os.Getpid(),
	}

	if s.stdin == nil {
		s.stdin = os.Stdin
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.env == nil {
		s.env = vars.OSEnv{}
	}
	if s.vars == nil {
		s.vars = vars.NewStore()
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.delimiters == "" {
		s.delimiters = shell.DefaultDelimiters
	}
	if s.path == "" {
		s.path = DefaultPath
	}
	if s.builtins == nil {
		s.builtins = AllBuiltins
	}
	if s.log == nil {
		s.log = log.New(ioutil.Discard, "", 0)
	}

	s.color = opts.Color
	s.errColor = color.New(color.FgRed, color.Bold)
	if opts.Color {
		s.errColor.EnableColor()
	} else {
		s.errColor.DisableColor()
	}

	if s.dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("couldn't get working directory: %w", err)
		}
		s.dir = wd
	}
	if !filepath.IsAbs(s.dir) {
		abs, err := filepath.Abs(s.dir)
		if err != nil {
			return nil, err
		}
		s.dir = abs
	}

	if _, ok := s.env.LookupEnv(EnvPWD); !ok {
		if err := s.env.Setenv(EnvPWD, s.dir); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Subshell returns a copy of s that shares nothing mutable with it, the
// variables and environment are copied. Its streams are replaced by the ones
// given.
func (s *Shell) Subshell(stdin, stdout, stderr *os.File) *Shell {
	clone := *s
	clone.stdin = stdin
	clone.stdout = stdout
	clone.stderr = stderr
	clone.env = vars.NewMapEnvFromEnvList(s.env.Environ())
	clone.vars = s.vars.Clone()
	clone.quit = false
	clone.exitCode = 0
	return &clone
}

// Stdin is the shell's standard input.
func (s *Shell) Stdin() io.Reader { return s.stdin }

// Stdout is the shell's standard output.
func (s *Shell) Stdout() io.Writer { return s.stdout }

// Stderr is the shell's standard error.
func (s *Shell) Stderr() io.Writer { return s.stderr }

// Env is the environment passed to commands.
func (s *Shell) Env() vars.Env { return s.env }

// Vars holds the shell variables.
func (s *Shell) Vars() *vars.Store { return s.vars }

// Dir is the working directory commands are started in.
func (s *Shell) Dir() string { return s.dir }

// Delimiters returns the characters separating words.
func (s *Shell) Delimiters() string { return s.delimiters }

// LastStatus is the status of the most recently run pipeline.
func (s *Shell) LastStatus() Status { return s.lastStatus }

// Quit reports whether the exit builtin asked the shell to stop and the code
// it should exit with.
func (s *Shell) Quit() (bool, int) { return s.quit, s.exitCode }

// Path is the command search path.
func (s *Shell) Path() string {
	if path, ok := s.env.LookupEnv(EnvPath); ok {
		return path
	}
	return s.path
}

// Expander creates a word expander bound to the shell's current state.
func (s *Shell) Expander() *expand.Expander {
	return &expand.Expander{
		Env:        s.env,
		Vars:       s.vars,
		Fs:         s.fs,
		Dir:        s.Dir,
		LookupHome: s.lookupHome,
		Special:    s.special,
	}
}

// special resolves "$?" and "$$".
func (s *Shell) special(name string) (string, bool) {
	switch name {
	case "?":
		return strconv.Itoa(s.lastStatus.Code()), true
	case "$":
		return strconv.Itoa(s.pid), true
	default:
		return "", false
	}
}

// Errorf writes an error message for the user to the shell's stderr.
func (s *Shell) Errorf(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintf(s.stderr, "%s: %s\n", shellName, s.errColor.Sprint(msg))
}

// Chdir changes the working directory of the shell and of the commands it
// starts from now on.
func (s *Shell) Chdir(dir string) error {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.dir, dir)
	}

	fi, err := s.fs.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return &os.PathError{Op: "chdir", Path: dir, Err: unix.ENOTDIR}
	}

	s.dir = filepath.Clean(dir)
	return s.env.Setenv(EnvPWD, s.dir)
}
