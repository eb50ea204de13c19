package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/josephlewis42/stush/third_party/realpath"
)

const (
	EnvOldPWD = "OLDPWD"

	clearScreen = "\033[H\033[2J"
)

// Builtin is a command run inside the shell process.
type Builtin interface {
	Main(s *Shell, args []string) int
}

// BuiltinFunc adapts a function to a Builtin.
type BuiltinFunc func(s *Shell, args []string) int

func (f BuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// Builtins maps names to builtins.
type Builtins map[string]Builtin

// Lookup finds a builtin by name.
func (b Builtins) Lookup(name string) (Builtin, bool) {
	builtin, ok := b[name]
	return builtin, ok
}

// Names returns the sorted names of the builtins.
func (b Builtins) Names() []string {
	var out []string
	for name := range b {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(Builtins)

// builtinDocs holds the one line description of each registered builtin.
var builtinDocs = make(map[string]string)

func addBuiltin(name, short string, fn BuiltinFunc) {
	AllBuiltins[name] = fn
	builtinDocs[name] = short
}

// BuiltinDoc returns the one line description of a registered builtin.
func BuiltinDoc(name string) string {
	return builtinDocs[name]
}

// Cd is the cd shell builtin
func Cd(s *Shell, args []string) int {
	cmd := &BuiltinCommand{
		Use:   "cd [DIR]",
		Short: BuiltinDoc("cd"),
	}

	return cmd.Run(s, args, func(args []string) int {
		var target string
		switch len(args) {
		case 0:
			home, ok := s.env.LookupEnv(EnvHome)
			if !ok || home == "" {
				s.Errorf("cd: HOME not set")
				return 1
			}
			target = home
		case 1:
			target = args[0]
		default:
			s.Errorf("cd: too many arguments")
			return 1
		}

		printDir := false
		if target == "-" {
			oldPwd, ok := s.env.LookupEnv(EnvOldPWD)
			if !ok || oldPwd == "" {
				s.Errorf("cd: OLDPWD not set")
				return 1
			}
			target = oldPwd
			printDir = true
		}

		resolved, err := realpath.Realpath(s.fs, s.dir, target)
		if err != nil {
			s.Errorf("cd: %s: %v", target, unwrapPathError(err))
			return 1
		}

		previous := s.dir
		if err := s.Chdir(resolved); err != nil {
			s.Errorf("cd: %s: %v", target, unwrapPathError(err))
			return 1
		}
		if err := s.env.Setenv(EnvOldPWD, previous); err != nil {
			s.log.Printf("couldn't set %s: %v", EnvOldPWD, err)
		}

		if printDir {
			fmt.Fprintln(s.stdout, s.dir)
		}
		return 0
	})
}

// Exit asks the shell to quit. The exit code defaults to the last status.
func Exit(s *Shell, args []string) int {
	cmd := &BuiltinCommand{
		Use:   "exit [CODE]",
		Short: BuiltinDoc("exit"),
	}

	return cmd.Run(s, args, func(args []string) int {
		code := s.lastStatus.Code()
		switch len(args) {
		case 0:
		case 1:
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				s.Errorf("exit: %s: numeric argument required", args[0])
				code = statusSyntaxError.Code()
			} else {
				code = parsed & 0xff
			}
		default:
			s.Errorf("exit: too many arguments")
			return 1
		}

		s.quit = true
		s.exitCode = code
		return code
	})
}

// Set assigns a shell variable, with no arguments it lists them.
func Set(s *Shell, args []string) int {
	cmd := &BuiltinCommand{
		Use:   "set [NAME [VALUE]]",
		Short: BuiltinDoc("set"),
	}

	return cmd.Run(s, args, func(args []string) int {
		switch len(args) {
		case 0:
			for _, name := range s.vars.Names() {
				fmt.Fprintf(s.stdout, "%s=%s\n", name, s.vars.Get(name))
			}
			return 0
		case 1, 2:
			if !validName(args[0]) {
				s.Errorf("set: %q: not a valid identifier", args[0])
				return 1
			}
			s.vars.Set(args[0], strings.Join(args[1:], ""))
			return 0
		default:
			s.Errorf("set: too many arguments")
			return 1
		}
	})
}

// Export sets an environment variable. A lone NAME exports the shell variable
// of that name, and no arguments lists the environment.
func Export(s *Shell, args []string) int {
	cmd := &BuiltinCommand{
		Use:   "export [NAME [VALUE]]",
		Short: BuiltinDoc("export"),
	}

	return cmd.Run(s, args, func(args []string) int {
		var name, value string
		switch len(args) {
		case 0:
			for _, entry := range s.env.Environ() {
				fmt.Fprintln(s.stdout, entry)
			}
			return 0
		case 1:
			if idx := strings.IndexByte(args[0], '='); idx >= 0 {
				name, value = args[0][:idx], args[0][idx+1:]
			} else {
				name = args[0]
				value = s.vars.Get(name)
			}
		case 2:
			name, value = args[0], args[1]
		default:
			s.Errorf("export: too many arguments")
			return 1
		}

		if !validName(name) {
			s.Errorf("export: %q: not a valid identifier", name)
			return 1
		}
		if err := s.env.Setenv(name, value); err != nil {
			s.Errorf("export: %v", err)
			return 1
		}
		return 0
	})
}

// Unset removes shell variables, or environment variables if no shell
// variable has the name.
func Unset(s *Shell, args []string) int {
	cmd := &BuiltinCommand{
		Use:   "unset NAME...",
		Short: BuiltinDoc("unset"),
	}

	return cmd.Run(s, args, func(args []string) int {
		if len(args) == 0 {
			s.Errorf("unset: not enough arguments")
			return 1
		}

		status := 0
		for _, name := range args {
			if s.vars.Unset(name) {
				continue
			}
			if err := s.env.Unsetenv(name); err != nil {
				s.Errorf("unset: %v", err)
				status = 1
			}
		}
		return status
	})
}

// Help lists the builtins, or shows the help of the named ones.
func Help(s *Shell, args []string) int {
	cmd := &BuiltinCommand{
		Use:   "help [NAME...]",
		Short: BuiltinDoc("help"),
	}

	return cmd.Run(s, args, func(args []string) int {
		if len(args) > 0 {
			status := 0
			for _, name := range args {
				builtin, ok := s.builtins.Lookup(name)
				if !ok {
					s.Errorf("help: no help topics match %q", name)
					status = 1
					continue
				}
				builtin.Main(s, []string{name, "--help"})
			}
			return status
		}

		w := s.stdout
		fmt.Fprintf(w, "%s, these commands are defined internally.\n", shellName)
		fmt.Fprintln(w, "Type `help NAME' to find out more about the builtin NAME.")
		fmt.Fprintln(w)
		for _, name := range s.builtins.Names() {
			fmt.Fprintf(w, "  %-8s %s\n", name, BuiltinDoc(name))
		}
		return 0
	})
}

// Clear clears the terminal screen.
func Clear(s *Shell, args []string) int {
	cmd := &BuiltinCommand{
		Use:   "clear",
		Short: BuiltinDoc("clear"),
	}

	return cmd.Run(s, args, func([]string) int {
		fmt.Fprint(s.stdout, clearScreen)
		return 0
	})
}

// validName reports whether name can be used as a variable name.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

func init() {
	addBuiltin("cd", "Change the shell working directory.", Cd)
	addBuiltin("exit", "Exit the shell.", Exit)
	addBuiltin("set", "Set or list shell variables.", Set)
	addBuiltin("export", "Set or list environment variables.", Export)
	addBuiltin("unset", "Unset shell or environment variables.", Unset)
	addBuiltin("help", "Display information about builtin commands.", Help)
	addBuiltin("clear", "Clear the terminal screen.", Clear)
}
