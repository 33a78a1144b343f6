// Package trace writes Chrome Trace Event files.
//
// It is the producer side of tracetool: programs (tracetool included) record
// begin/end spans, counters and instant events, and the resulting file can
// be loaded, merged and analysed by the rest of the toolkit.
//
// # Usage
//
// Enable self tracing via command-line flags:
//
//	tracetool totals --trace self run.trace --depth 1
//	tracetool tree self_<pid>.trace
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes a JSON array incrementally to a file
//   - RingTracer: keeps the last events in memory for crash dumps
//   - MultiTracer: fans out to several tracers
//
// A StreamTracer writes "[" on creation, one object per event separated by
// commas, and "]" on Close. A process that dies before Close leaves the
// closing bracket out; tracefile.Repair restores it. SkipClosingBracket
// produces the same artifact on purpose.
//
// # Levels
//
// Verbosity is controlled by levels:
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: commands and their stages
//   - LevelDetail: per-file work
//   - LevelDebug: everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeStage, "load")
//	defer span.End()
package trace
