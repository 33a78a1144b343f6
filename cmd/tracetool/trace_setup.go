package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tracetool/internal/trace"
)

// setupTracing inspects trace-related flags and initializes the self tracer.
// The tracer is attached to the command context and closed by finish.
func setupTracing(cmd *cobra.Command) error {
	root := cmd.Root()

	// Read trace configuration from flags
	traceBase, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}

	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	flushAlways, err := root.PersistentFlags().GetBool("trace-flush")
	if err != nil {
		return fmt.Errorf("failed to get trace-flush flag: %w", err)
	}

	memInterval, err := root.PersistentFlags().GetDuration("trace-mem-interval")
	if err != nil {
		return fmt.Errorf("failed to get trace-mem-interval flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}

	// Without an output only the ring can be kept.
	if traceBase == "" {
		if mode == trace.ModeStream || level == trace.LevelOff {
			cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
			return nil
		}
		mode = trace.ModeRing
	}

	pid := int64(os.Getpid())
	cfg := trace.Config{
		Level:     level,
		Mode:      mode,
		Format:    trace.FormatChrome,
		RingSize:  ringSize,
		ProcessID: pid,

		FlushAlways: flushAlways,
	}
	if traceBase != "" {
		cfg.OutputPath = trace.FileName(traceBase, pid)
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	session.tracer = tracer
	if cfg.OutputPath != "" {
		session.log.Info("writing self trace", zap.String("file", cfg.OutputPath))
	}

	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	trace.ProcessName(tracer, "tracetool "+cmd.Name())
	session.span = trace.Begin(tracer, trace.ScopeCommand, cmd.Name())
	session.sampler = trace.StartMemorySampler(tracer, memInterval)
	return nil
}

// dumpTraceOnPanic writes the in-memory trace to stderr and re-panics.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ring := trace.RingOf(session.tracer); ring != nil {
		fmt.Fprintln(os.Stderr, "trace: last events before panic:")
		_ = ring.Dump(os.Stderr, trace.FormatText) //nolint:errcheck
	}
	panic(r)
}
