package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/josephlewis42/stush/core/config"
	"github.com/josephlewis42/stush/core/logger"
	"github.com/spf13/cobra"
)

// playgroundCmd runs the shell with a throwaway configuration that logs every
// event, then reports on them.
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run the shell with a temporary configuration and event log.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := os.MkdirTemp("", "playground")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		playgroundLogger := log.New(cmd.ErrOrStderr(), "[playground] ", 0)
		if err := config.Initialize(dir, playgroundLogger); err != nil {
			return err
		}
		cfg, err := config.Load(dir)
		if err != nil {
			return err
		}
		cfg.EventLog = "events.jsonl"
		cfg.Prompt = `playground \w\$ `

		logFd, err := cfg.OpenAppLog()
		if err != nil {
			return err
		}
		defer logFd.Close()

		playgroundLogger.Printf("Logging to: file://%s\n", dir)
		playgroundLogger.Printf("See logs with: tail -f %s %s\n", filepath.Join(dir, cfg.EventLog), cfg.AppLogPath())
		playgroundLogger.Println(strings.Repeat("=", 80))

		s, err := newShellSession(cfg, log.New(logFd, "[playground] ", log.LstdFlags))
		if err != nil {
			return err
		}
		exitCode, err := runShell(s, cfg, nil)
		s.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exit code: %d\n", exitCode)

		fd, err := cfg.ReadEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		report := logger.NewReport()
		if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
