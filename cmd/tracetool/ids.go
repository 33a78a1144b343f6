package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tracetool/internal/index"
)

var idsCmd = &cobra.Command{
	Use:   "ids <file.trace>...",
	Short: "List processes and their threads",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIDs,
}

func init() {
	idsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runIDs(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	list, err := loadEvents(cmd, args)
	if err != nil {
		return err
	}
	summary := index.Summarize(list)

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	for _, proc := range summary {
		total := 0
		for _, th := range proc.Threads {
			total += th.Records
		}
		counts.Fprintf(out, "process %s: %d records\n", proc.ProcessID, total)
		for _, th := range proc.Threads {
			counts.Fprintf(out, "  thread %s: %d records\n", th.ThreadID, th.Records)
		}
	}
	return nil
}
