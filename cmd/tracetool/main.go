package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tracetool/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tracetool",
	Short: "Repair, merge and analyse Chrome trace files",
	Long: `tracetool loads trace files written in the Chrome Trace Event format,
repairs files left unterminated, merges per-process fragments and answers
questions about the nesting and duration of begin/end events.`,
	SilenceUsage:      true,
	PersistentPreRunE: startSession,
}

// init registers subcommands and persistent flags.
func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(minCmd)
	rootCmd.AddCommand(idsCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(versionCmd)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "path to tracetool.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("mode", "name", "begin/end matching (name|stack)")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers for loading files (0=auto)")
	rootCmd.PersistentFlags().Bool("cache", false, "cache parsed events on disk")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI (auto|on|off)")
	rootCmd.PersistentFlags().String("trace", "", "write a self trace to <base>_<pid>.trace")
	rootCmd.PersistentFlags().String("trace-level", "phase", "self trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "both", "self trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in memory for crash dumps")
	rootCmd.PersistentFlags().Bool("trace-flush", false, "flush the self trace after every event")
	rootCmd.PersistentFlags().Duration("trace-mem-interval", 0, "sample memory use into the self trace (0=off)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
}

// main runs the root command. If command execution returns an error, the
// process exits with status code 1.
func main() {
	err := rootCmd.Execute()
	session.finish(rootCmd.ErrOrStderr())
	if err != nil {
		os.Exit(1)
	}
}

// startSession resolves configuration, logging, color and tracing before
// any subcommand runs.
func startSession(cmd *cobra.Command, args []string) error {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if err := applyColorMode(colorMode); err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	session.cfg = cfg

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	session.quiet = quiet
	level := cfg.Log.Level
	if quiet {
		level = "error"
	}
	logger, err := newLogger(level, cmd.ErrOrStderr(), !color.NoColor)
	if err != nil {
		return err
	}
	session.log = logger

	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	session.timings = timings

	if err := setupProfiling(cmd); err != nil {
		return err
	}
	return setupTracing(cmd)
}

func applyColorMode(mode string) error {
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
