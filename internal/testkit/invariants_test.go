package testkit

import (
	"strings"
	"testing"

	"tracetool/internal/correlate"
	"tracetool/internal/event"
)

func rec(name string, tid event.ThreadID, ts int64, ph event.Phase) event.Record {
	return event.Record{Name: name, ProcessID: 1, ThreadID: tid, Timestamp: ts, Phase: ph}
}

func TestCheckStackPairsAcceptsNesting(t *testing.T) {
	list := event.List{
		rec("outer", "1", 0, event.PhaseBegin),
		rec("inner", "1", 5, event.PhaseBegin),
		rec("inner", "1", 7, event.PhaseEnd),
		rec("other", "2", 1, event.PhaseBegin),
		rec("other", "2", 2, event.PhaseEnd),
		rec("outer", "1", 10, event.PhaseEnd),
	}
	if err := CheckStackPairs(correlate.Pairs(list, correlate.ModeStack)); err != nil {
		t.Fatalf("CheckStackPairs: %v", err)
	}
	if err := CheckStackPairs(correlate.Pairs(event.NestedFixture(), correlate.ModeStack)); err != nil {
		t.Fatalf("CheckStackPairs(fixture): %v", err)
	}
}

func TestCheckStackPairsRejects(t *testing.T) {
	b := rec("a", "1", 10, event.PhaseBegin)
	e := rec("a", "1", 20, event.PhaseEnd)
	cases := []struct {
		name string
		pair correlate.Pair
		want string
	}{
		{"backwards", correlate.Pair{Name: "a", Begin: e, End: b}, "before it begins"},
		{"names", correlate.Pair{Name: "b", Begin: b, End: e}, "names differ"},
		{"streams", correlate.Pair{Name: "a", Begin: b, End: rec("a", "2", 20, event.PhaseEnd)}, "begin on"},
		{"orphan", correlate.Pair{Name: "a", Begin: b, End: e, Depth: 1}, "no enclosing pair"},
	}
	for _, tc := range cases {
		err := CheckStackPairs([]correlate.Pair{tc.pair})
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: got %v, want error containing %q", tc.name, err, tc.want)
		}
	}
}
