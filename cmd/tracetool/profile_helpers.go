package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracetool/internal/prof"
)

// setupProfiling starts the profilers requested by --cpu-profile and
// --mem-profile. finish stops them.
func setupProfiling(cmd *cobra.Command) error {
	root := cmd.Root()

	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}

	p, err := prof.Start(cpuProfile, memProfile)
	if err != nil {
		return err
	}
	session.prof = p
	return nil
}
