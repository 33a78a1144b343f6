package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"tracetool/internal/observ"
	"tracetool/internal/prof"
	"tracetool/internal/trace"
)

// sessionState is what startSession resolves for the running command.
type sessionState struct {
	cfg     toolConfig
	log     *zap.Logger
	quiet   bool
	timings bool
	timer   *observ.Timer
	prof    *prof.Profiler

	tracer  trace.Tracer
	span    *trace.Span
	sampler *trace.MemorySampler
}

var session = sessionState{
	cfg:    defaultConfig(),
	log:    zap.NewNop(),
	timer:  observ.NewTimer(),
	tracer: trace.Nop,
}

// phase times fn as a named stage, both for --timings and the self trace.
func (s *sessionState) phase(name, note string, fn func() error) error {
	idx := s.timer.Begin(name)
	span := trace.Begin(s.tracer, trace.ScopeStage, name)
	err := fn()
	span.End()
	s.timer.End(idx, note)
	return err
}

// finish ends the command span, closes the tracer, stops profiling and
// prints timings.
func (s *sessionState) finish(errOut io.Writer) {
	s.span.End()
	s.sampler.Stop()
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(errOut, "trace: close error: %v\n", err)
	}
	if err := s.prof.Stop(); err != nil {
		fmt.Fprintf(errOut, "profile: %v\n", err)
	}
	if s.timings && len(s.timer.Report().Phases) > 0 {
		fmt.Fprint(errOut, s.timer.Summary())
	}
	_ = s.log.Sync() //nolint:errcheck
}
