package trace_test

import (
	"context"
	"path/filepath"
	"testing"

	"tracetool/internal/correlate"
	"tracetool/internal/testkit"
	"tracetool/internal/trace"
	"tracetool/internal/tracefile"
)

func TestUnterminatedTraceLoadsAfterRepair(t *testing.T) {
	path := filepath.Join(t.TempDir(), trace.FileName("run", 5))
	tr, err := trace.New(trace.Config{
		Level:              trace.LevelPhase,
		OutputPath:         path,
		ProcessID:          5,
		SkipClosingBracket: true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	outer := trace.Begin(tr, trace.ScopeCommand, "outer")
	trace.Begin(tr, trace.ScopeStage, "inner").End()
	outer.End()
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	frag, err := tracefile.Load(context.Background(), path, tracefile.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !frag.Repaired {
		t.Fatalf("unterminated file should have been repaired")
	}

	pairs := correlate.Pairs(frag.Events, correlate.ModeStack)
	if err := testkit.CheckStackPairs(pairs); err != nil {
		t.Fatalf("invalid pairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[0].Name != "inner" || pairs[0].Depth != 1 {
		t.Fatalf("first pair = %+v", pairs[0])
	}
	if pairs[1].Name != "outer" || pairs[1].Depth != 0 {
		t.Fatalf("second pair = %+v", pairs[1])
	}
	if pairs[1].Begin.ProcessID != 5 {
		t.Fatalf("pid = %d", pairs[1].Begin.ProcessID)
	}
}
