package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tracetool/internal/stats"
)

var totalsCmd = &cobra.Command{
	Use:   "totals <file.trace>...",
	Short: "Sum event durations per name at one nesting depth",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTotals,
}

func init() {
	totalsCmd.Flags().Int("depth", 0, "nesting depth to aggregate (default from config)")
	totalsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type totalsPayload struct {
	Depth  int                `json:"depth"`
	Totals map[string]float64 `json:"totals"`
}

func runTotals(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	depth := session.cfg.Analysis.TargetDepth
	if cmd.Flags().Changed("depth") {
		if depth, err = cmd.Flags().GetInt("depth"); err != nil {
			return fmt.Errorf("failed to get depth flag: %w", err)
		}
		if depth < 0 {
			return fmt.Errorf("--depth must not be negative")
		}
	}

	list, err := loadEvents(cmd, args)
	if err != nil {
		return err
	}

	var totals stats.Totals
	_ = session.phase("query", "totals", func() error {
		totals, _ = stats.Aggregate(list, depth, session.cfg.mode())
		return nil
	})

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(totalsPayload{Depth: depth, Totals: totals.Map()})
	}
	fmt.Fprint(out, totals.Format())
	return nil
}
