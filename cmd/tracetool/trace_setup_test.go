package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tracetool/internal/correlate"
	"tracetool/internal/event"
	"tracetool/internal/testkit"
	"tracetool/internal/trace"
	"tracetool/internal/tracefile"
)

func TestSelfTraceIsAnalysable(t *testing.T) {
	w := newWorkspace(t)
	path := w.file(t, "run.trace", event.NestedFixtureJSON)
	base := filepath.Join(w.dir, "self")
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("trace", "")
	})

	if _, err := w.run(t, "", "totals", path, "--depth", "0", "--trace", base); err != nil {
		t.Fatalf("totals: %v", err)
	}

	selfPath := trace.FileName(base, int64(os.Getpid()))
	frag, err := tracefile.Load(context.Background(), selfPath, tracefile.Options{})
	if err != nil {
		t.Fatalf("load self trace: %v", err)
	}
	pairs := correlate.Pairs(frag.Events, correlate.ModeStack)
	if err := testkit.CheckStackPairs(pairs); err != nil {
		t.Fatalf("invalid pairs: %v", err)
	}
	seen := make(map[string]int)
	for _, p := range pairs {
		seen[p.Name] = p.Depth
	}
	for name, depth := range map[string]int{"totals": 0, "load": 1, "query": 1} {
		got, ok := seen[name]
		if !ok || got != depth {
			t.Fatalf("span %q: depth %d (found %v), want %d; spans %v", name, got, ok, depth, seen)
		}
	}
}
