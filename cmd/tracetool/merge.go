package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <file.trace>...",
	Short: "Merge per-process trace files into one",
	Long: `Merge concatenates trace files into a single JSON array. Thread ids are
prefixed with the source path so threads of different files stay apart.
An input that is the output file itself is skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("output", "o", "", "merged output file (default from config, else merged.trace)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output == "" {
		output = session.cfg.Merge.Output
	}

	list, err := mergeEvents(cmd, args, output)
	if err != nil {
		return err
	}
	if !session.quiet {
		counts.Fprintf(cmd.OutOrStdout(), "merged %d events from %d file(s) into %s\n", len(list), len(args), output)
	}
	return nil
}
