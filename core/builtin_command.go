package core

import (
	"fmt"
	"io"

	getopt "github.com/pborman/getopt/v2"
)

// BuiltinCommand parses the flags of a builtin and prints its help.
type BuiltinCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string

	flags    *getopt.Set
	showHelp *bool
}

// Flags gets the command's flag set.
func (c *BuiltinCommand) Flags() *getopt.Set {
	if c.flags == nil {
		c.flags = getopt.New()
	}

	return c.flags
}

// PrintHelp writes help for the command to the given writer.
func (c *BuiltinCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, c.Use)
	fmt.Fprintln(w, c.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	c.Flags().PrintOptions(w)
}

// Run parses args, the first of which is the name of the builtin. If parsing
// was successful the callback is called with the remaining arguments.
//
// Invalid flags print the help to stderr and have status 2.
func (c *BuiltinCommand) Run(s *Shell, args []string, callback func(args []string) int) int {
	opts := c.Flags()
	if c.showHelp == nil {
		c.showHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(args, nil); err != nil {
		s.Errorf("%s: %v", args[0], err)
		c.PrintHelp(s.Stderr())
		return statusSyntaxError.Code()
	}

	if *c.showHelp {
		c.PrintHelp(s.Stdout())
		return 0
	}

	return callback(opts.Args())
}
