package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracetool/internal/explore"
)

var minCmd = &cobra.Command{
	Use:   "min <file.trace>... --event NAME",
	Short: "Find the process with the shortest run of an event",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMin,
}

func init() {
	minCmd.Flags().String("event", "", "event name to look for")
	_ = minCmd.MarkFlagRequired("event") //nolint:errcheck
}

func runMin(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	name, err := cmd.Flags().GetString("event")
	if err != nil {
		return fmt.Errorf("failed to get event flag: %w", err)
	}

	list, err := loadEvents(cmd, args)
	if err != nil {
		return err
	}

	var (
		occ   explore.Occurrence
		found bool
	)
	_ = session.phase("query", "min", func() error {
		occ, found = explore.MinOccurrence(list, name, session.cfg.mode())
		return nil
	})
	if !found {
		return fmt.Errorf("no completed occurrence of %q", name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "process %s: %e seconds\n", occ.ProcessID, occ.Seconds)
	return nil
}
