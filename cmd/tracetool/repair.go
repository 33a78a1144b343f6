package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracetool/internal/tracefile"
)

var repairCmd = &cobra.Command{
	Use:   "repair <file.trace>...",
	Short: "Terminate trace files that were cut short",
	Long: `Repair rewrites, in place, trace files whose writer never emitted the
closing bracket. Files that are already well formed are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRepair,
}

func runRepair(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	out := cmd.OutOrStdout()
	return session.phase("repair", fmt.Sprintf("%d file(s)", len(args)), func() error {
		for _, path := range args {
			changed, err := tracefile.Repair(path)
			if err != nil {
				return err
			}
			if session.quiet {
				continue
			}
			if changed {
				fmt.Fprintf(out, "repaired %s\n", path)
			} else {
				fmt.Fprintf(out, "ok       %s\n", path)
			}
		}
		return nil
	})
}
