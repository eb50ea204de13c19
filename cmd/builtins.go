package cmd

import (
	"fmt"

	"github.com/josephlewis42/stush/core"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the builtins
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands built into the shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range core.AllBuiltins.Names() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", name, core.BuiltinDoc(name))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
