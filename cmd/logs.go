package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/stush/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var reportJSON bool

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log", "events"},
	Short:   "Explore the event log.",
}

// reportCommand summarizes an event log
var reportCommand = &cobra.Command{
	Use:   "report [FILE]",
	Short: "Show a report of logged events.",
	Long: `Show a report of the events in FILE, or in the configured event log if
no FILE is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := openEventLog(args)
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

func openEventLog(args []string) (io.ReadCloser, error) {
	if len(args) > 0 {
		return os.Open(args[0])
	}

	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	fd, err := config.ReadEventLog()
	if err != nil {
		return nil, fmt.Errorf("couldn't open event log, is event_log set? %w", err)
	}
	return fd, nil
}

func writeReport(w io.Writer, report *logger.Report) error {
	var out []byte
	var err error
	if reportJSON {
		out, err = json.MarshalIndent(report, "", "  ")
	} else {
		out, err = yaml.Marshal(report)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(w, string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(reportCommand)

	reportCommand.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON instead of YAML")
}
