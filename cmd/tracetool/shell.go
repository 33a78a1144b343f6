package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tracetool/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell <file.trace>...",
	Short: "Explore a trace interactively",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	list, err := loadEvents(cmd, args)
	if err != nil {
		return err
	}
	sh := shell.New(list, shell.Options{
		In:                 cmd.InOrStdin(),
		Out:                cmd.OutOrStdout(),
		Mode:               session.cfg.mode(),
		DefaultMaxDepth:    session.cfg.Analysis.MaxDepth,
		DefaultTargetDepth: session.cfg.Analysis.TargetDepth,
		Color:              !color.NoColor,
	})
	if err := sh.Run(cmd.Context()); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}
