package cmd

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/stush/core/shell"
	"github.com/spf13/cobra"
)

// tokenizeCmd shows how a line is split into tokens
var tokenizeCmd = &cobra.Command{
	Use:   "tokenize LINE...",
	Short: "Print the tokens the shell splits a line into.",
	Long: `Print the tokens the shell splits a line into, one per line with its
kind. Arguments are joined with spaces to form the line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		delimiters := shell.DefaultDelimiters
		if cfg, err := loadConfig(); err == nil {
			delimiters = cfg.Delimiters
		}

		tokens, err := shell.Tokenize(strings.Join(args, " "), delimiters)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, tok := range tokens {
			fmt.Fprintf(w, "%-9s %q\n", tok.Kind, tok.Text)
		}
		return shell.Validate(tokens)
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}
