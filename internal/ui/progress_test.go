package ui

import (
	"strings"
	"testing"

	"tracetool/internal/tracefile"
)

func TestApplyEventTracksFiles(t *testing.T) {
	ch := make(chan tracefile.Progress)
	m := NewProgressModel("loading", []string{"a.trace", "b.trace"}, ch).(*progressModel)

	m.applyEvent(tracefile.Progress{File: "a.trace", Stage: tracefile.StageParse, Status: tracefile.StatusWorking})
	m.applyEvent(tracefile.Progress{File: "b.trace", Stage: tracefile.StageParse, Status: tracefile.StatusDone})
	m.applyEvent(tracefile.Progress{File: "unknown.trace", Status: tracefile.StatusDone})
	m.applyEvent(tracefile.Progress{Stage: tracefile.StageMerge, Status: tracefile.StatusWorking})

	if m.items[0].status != "parsing" || m.items[1].status != "done" {
		t.Fatalf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if m.stageLabel != "merging" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	if got, want := m.fraction(), (0.6+1.0)/2; got != want {
		t.Fatalf("fraction = %v, want %v", got, want)
	}

	view := m.View()
	for _, want := range []string{"loading (merging)", "a.trace", "parsing", "done"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a-very-long-name.trace", 10, "a-very-..."},
		{"abcdef", 2, "ab"},
		{"abc", 0, "abc"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
