package cmd

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/user"
	"path/filepath"

	"github.com/josephlewis42/stush/core"
	"github.com/josephlewis42/stush/core/config"
	"github.com/josephlewis42/stush/core/logger"
	"github.com/josephlewis42/stush/core/vars"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgPath    string
	command    string
	debug      bool
	exitStatus int
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "stush")
}

func loadConfig() (*config.Configuration, error) {
	return config.Load(cfgPath)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shellSession is a shell and the resources it holds.
type shellSession struct {
	*core.Shell
	closers []func() error
}

func (s *shellSession) Close() {
	for _, closer := range s.closers {
		closer()
	}
}

// newShellSession creates a shell on the process's standard streams
// configured by cfg.
func newShellSession(cfg *config.Configuration, diagnostics *log.Logger) (*shellSession, error) {
	session := &shellSession{}

	env := vars.OSEnv{}
	setDefaultEnv(env)

	opts := core.Options{
		Env:         env,
		Delimiters:  cfg.Delimiters,
		DefaultPath: cfg.DefaultPath,
		Logger:      diagnostics,
		Color:       cfg.ShouldColor(isTerminal(os.Stderr)),
	}

	eventLog, err := cfg.OpenEventLog()
	if err != nil {
		return nil, fmt.Errorf("couldn't open event log: %w", err)
	}
	if eventLog != nil {
		session.closers = append(session.closers, eventLog.Close)
		opts.Events = logger.NewRecorder(logger.NewJSONLinesLogRecorder(eventLog))
	}

	s, err := core.NewShell(opts)
	if err != nil {
		session.Close()
		return nil, err
	}
	session.Shell = s
	return session, nil
}

// setDefaultEnv fills in the variables a login would set.
func setDefaultEnv(env vars.Env) {
	defaults := map[string]func() (string, error){
		core.EnvHostname: os.Hostname,
		core.EnvUser: func() (string, error) {
			u, err := user.Current()
			if err != nil {
				return "", err
			}
			return u.Username, nil
		},
		core.EnvHome: os.UserHomeDir,
	}

	for name, lookup := range defaults {
		if _, ok := env.LookupEnv(name); ok {
			continue
		}
		if value, err := lookup(); err == nil {
			env.Setenv(name, value)
		}
	}
}

// diagnosticLogger returns where --debug messages go and a function to
// release it. On a terminal they'd be mixed into the session, so they're
// appended to the app log instead.
func diagnosticLogger(cmd *cobra.Command, cfg *config.Configuration) (*log.Logger, func() error) {
	noop := func() error { return nil }
	if !debug {
		return log.New(ioutil.Discard, "", 0), noop
	}

	stderrLogger := log.New(cmd.ErrOrStderr(), "[stush] ", log.LstdFlags)
	if !isTerminal(os.Stderr) {
		return stderrLogger, noop
	}

	fd, err := cfg.OpenAppLog()
	if err != nil {
		stderrLogger.Printf("couldn't open app log, logging here: %v", err)
		return stderrLogger, noop
	}
	return log.New(fd, "[stush] ", log.LstdFlags), fd.Close
}

// runShell runs the shell the way the arguments ask for and returns the code
// the process should exit with.
func runShell(s *shellSession, cfg *config.Configuration, args []string) (int, error) {
	switch {
	case command != "":
		return s.RunCommand(command), nil

	case len(args) > 0:
		fd, err := os.Open(args[0])
		if err != nil {
			return 127, err
		}
		defer fd.Close()
		return s.RunScript(fd)

	case isTerminal(os.Stdin):
		history := cfg.HistoryPath()
		if history != "" {
			if err := os.MkdirAll(filepath.Dir(history), 0700); err != nil {
				history = ""
			}
		}
		return s.RunInteractive(core.InteractiveOptions{
			Prompt:      cfg.Prompt,
			HistoryFile: history,
		})

	default:
		return s.RunScript(os.Stdin)
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stush [-c COMMAND | SCRIPT]",
	Short: "A small command shell",
	Long: `A small command shell supporting pipelines, && and || lists, variables,
globs and a handful of builtins.

With -c it runs a single line, with a SCRIPT it runs every line of the file,
otherwise it reads commands from stdin.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if command != "" && len(args) > 0 {
			return errors.New("-c and SCRIPT can't be used together")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		diagnostics, closeDiagnostics := diagnosticLogger(cmd, cfg)
		defer closeDiagnostics()

		s, err := newShellSession(cfg, diagnostics)
		if err != nil {
			return err
		}
		defer s.Close()

		exitStatus, err = runShell(s, cfg, args)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// It returns the code the process should exit with.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stush: %v\n", err)
		if exitStatus == 0 {
			exitStatus = 1
		}
	}
	return exitStatus
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write diagnostic messages to stderr")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run COMMAND and exit")
	rootCmd.Flags().SetInterspersed(false)
}
