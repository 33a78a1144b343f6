package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tracetool/internal/correlate"
	"tracetool/internal/event"
)

func runScript(t *testing.T, list event.List, script string) (*Shell, string) {
	t.Helper()
	var out bytes.Buffer
	s := New(list, Options{
		In:              strings.NewReader(script),
		Out:             &out,
		Mode:            correlate.ModeByName,
		DefaultMaxDepth: 2,
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}
	return s, out.String()
}

func TestSessionOnFixture(t *testing.T) {
	_, out := runScript(t, event.NestedFixture(), "t\n\ns\n\ns\n1\ne\nFirst event\nq\n")

	for _, want := range []string{
		"process: 7",
		"thread: 576",
		"First event\nFirst event (0.38 seconds)\n",
		"First event 3.800000e-01 seconds\n",
		"no events at target depth: 1\n",
		"min: process 7, 3.799850e-01 seconds\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEndOfInputEndsCleanly(t *testing.T) {
	_, out := runScript(t, event.NestedFixture(), "t\n")
	if !strings.Contains(out, "max depth [2]: ") {
		t.Fatalf("expected a depth prompt:\n%s", out)
	}
}

func TestInvalidAnswersReprompt(t *testing.T) {
	_, out := runScript(t, event.NestedFixture(), "x\nt\n-1\nabc\n0\ne\nmissing\nq\n")
	for _, want := range []string{
		`unknown command "x"`,
		`max depth must be a non-negative integer, got "-1"`,
		`got "abc"`,
		"First event (0.38 seconds)",
		`no completed occurrence of "missing"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSelectsProcessAndThread(t *testing.T) {
	list := event.List{
		{Name: "a", ProcessID: 1, ThreadID: "1", Timestamp: 0, Phase: event.PhaseBegin},
		{Name: "a", ProcessID: 1, ThreadID: "1", Timestamp: 10, Phase: event.PhaseEnd},
		{Name: "b", ProcessID: 2, ThreadID: "3", Timestamp: 0, Phase: event.PhaseBegin},
		{Name: "b", ProcessID: 2, ThreadID: "3", Timestamp: 20, Phase: event.PhaseEnd},
		{Name: "c", ProcessID: 2, ThreadID: "4", Timestamp: 0, Phase: event.PhaseBegin},
		{Name: "c", ProcessID: 2, ThreadID: "4", Timestamp: 30, Phase: event.PhaseEnd},
	}
	s, out := runScript(t, list, "9\n2\n5\n4\nt\n\nq\n")

	pid, tid := s.Selected()
	if pid != 2 || tid != "4" {
		t.Fatalf("selected %v/%v, want 2/4", pid, tid)
	}
	for _, want := range []string{
		"processes: 1, 2",
		`unknown process id "9"`,
		"threads: 3, 4",
		`unknown thread id "5"`,
		"c\nc (0.00003 seconds)\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEmptyListIsAnError(t *testing.T) {
	s := New(nil, Options{In: strings.NewReader(""), Out: &bytes.Buffer{}})
	if err := s.Run(context.Background()); !errors.Is(err, ErrNoEvents) {
		t.Fatalf("Run on empty list = %v, want ErrNoEvents", err)
	}
}

func TestCancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(event.NestedFixture(), Options{In: strings.NewReader("t\n"), Out: &bytes.Buffer{}})
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}
