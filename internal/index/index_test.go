package index

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tracetool/internal/event"
)

func TestFixtureIDs(t *testing.T) {
	list := event.NestedFixture()
	if diff := cmp.Diff([]event.ProcessID{7}, ProcessIDs(list)); diff != "" {
		t.Fatalf("ProcessIDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]event.ThreadID{"576"}, ThreadIDs(list, 7)); diff != "" {
		t.Fatalf("ThreadIDs mismatch (-want +got):\n%s", diff)
	}
	if got := ThreadIDs(list, 8); len(got) != 0 {
		t.Fatalf("ThreadIDs(8) = %v, want none", got)
	}
}

func TestThreadIDsOrdering(t *testing.T) {
	list := event.List{
		{ProcessID: 2, ThreadID: "b.trace.1"},
		{ProcessID: 2, ThreadID: "10"},
		{ProcessID: 1, ThreadID: "99"},
		{ProcessID: 2, ThreadID: "9"},
		{ProcessID: 2, ThreadID: "a.trace.1"},
		{ProcessID: 2, ThreadID: "10"},
	}
	want := []event.ThreadID{"9", "10", "a.trace.1", "b.trace.1"}
	if diff := cmp.Diff(want, ThreadIDs(list, 2)); diff != "" {
		t.Fatalf("ThreadIDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]event.ProcessID{1, 2}, ProcessIDs(list)); diff != "" {
		t.Fatalf("ProcessIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	list := append(event.NestedFixture(), event.Record{ProcessID: 1, ThreadID: "3", Phase: event.PhaseCounter})
	want := []Summary{
		{ProcessID: 1, Threads: []ThreadSummary{{ThreadID: "3", Records: 1}}},
		{ProcessID: 7, Threads: []ThreadSummary{{ThreadID: "576", Records: 4}}},
	}
	if diff := cmp.Diff(want, Summarize(list)); diff != "" {
		t.Fatalf("Summarize mismatch (-want +got):\n%s", diff)
	}
}
