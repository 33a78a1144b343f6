package render

import (
	"strings"
	"testing"

	"tracetool/internal/correlate"
	"tracetool/internal/event"
)

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestTreeFixtureDepthZero(t *testing.T) {
	got := Tree(event.NestedFixture(), 7, "576", 0, correlate.ModeByName)
	want := "First event\nFirst event (0.38 seconds)"
	if got != want {
		t.Fatalf("Tree = %q, want %q", got, want)
	}
	if n := len(nonEmptyLines(got)); n != 2 {
		t.Fatalf("got %d non-empty lines, want 2", n)
	}
}

func TestTreeOtherStreamIsEmpty(t *testing.T) {
	if got := Tree(event.NestedFixture(), 7, "1", 5, correlate.ModeByName); got != "" {
		t.Fatalf("Tree for unknown thread = %q, want empty", got)
	}
}

func TestTreeIndentsAndTruncates(t *testing.T) {
	mk := func(name string, ph event.Phase, ts int64) event.Record {
		return event.Record{Name: name, ProcessID: 3, ThreadID: "11", Timestamp: ts, Phase: ph}
	}
	list := event.List{
		mk("main", event.PhaseBegin, 0),
		mk("solve", event.PhaseBegin, 100_000),
		mk("kernel", event.PhaseBegin, 200_000),
		mk("kernel", event.PhaseEnd, 300_000),
		mk("solve", event.PhaseEnd, 500_000),
		{Name: "noise", ProcessID: 4, ThreadID: "11", Timestamp: 550_000, Phase: event.PhaseBegin},
		mk("write", event.PhaseBegin, 600_000),
		mk("write", event.PhaseEnd, 700_000),
		mk("main", event.PhaseEnd, 1_000_000),
	}
	got := Tree(list, 3, "11", 1, correlate.ModeByName)
	want := strings.Join([]string{
		"main",
		"  solve",
		"  solve (0.4 seconds)",
		"  write",
		"  write (0.1 seconds)",
		"main (1 seconds)",
	}, "\n")
	if got != want {
		t.Fatalf("Tree =\n%s\nwant\n%s", got, want)
	}
}

func TestTreeStackModeShowsNestedSameName(t *testing.T) {
	got := Tree(event.NestedFixture(), 7, "576", 1, correlate.ModeStack)
	want := strings.Join([]string{
		"First event",
		"  First event",
		"  First event (0.379985 seconds)",
		"First event (0.380005 seconds)",
	}, "\n")
	if got != want {
		t.Fatalf("Tree =\n%s\nwant\n%s", got, want)
	}
}
