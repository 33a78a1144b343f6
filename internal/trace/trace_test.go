package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tracetool/internal/event"
)

func TestFileName(t *testing.T) {
	cases := []struct {
		base string
		pid  int64
		want string
	}{
		{"trace", 42, "trace_42.trace"},
		{"out/run.trace", 7, "out/run_7.trace"},
	}
	for _, tc := range cases {
		if got := FileName(tc.base, tc.pid); got != tc.want {
			t.Fatalf("FileName(%q, %d) = %q, want %q", tc.base, tc.pid, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for i, name := range levelNames {
		got, err := ParseLevel(strings.ToUpper(name))
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if got != Level(i) || got.String() != name {
			t.Fatalf("ParseLevel(%q) = %v", name, got)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	if LevelError.ShouldEmit(ScopeCommand) {
		t.Fatalf("error level should not record spans")
	}
	if !LevelPhase.ShouldEmit(ScopeStage) || LevelPhase.ShouldEmit(ScopeFile) {
		t.Fatalf("phase level must stop at stages")
	}
	if !LevelDebug.ShouldEmit(ScopeRecord) {
		t.Fatalf("debug level must record everything")
	}
	if LevelDebug.ShouldEmit(0) {
		t.Fatalf("zero scope must never be emitted")
	}
}

func decodeArray(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, data)
	}
	return out
}

func TestStreamTracerWritesJSONArray(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, Config{Level: LevelPhase, ProcessID: 99}, FormatChrome)

	span := Begin(tr, ScopeStage, "load")
	span.End()
	Begin(tr, ScopeFile, "too detailed").End()
	Counter(tr, MemoryCounterName, 12.5)
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	items := decodeArray(t, buf.Bytes())
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3:\n%s", len(items), buf.String())
	}
	wantPhases := []string{"B", "E", "C"}
	for i, item := range items {
		if item["ph"] != wantPhases[i] {
			t.Fatalf("item %d phase = %v, want %s", i, item["ph"], wantPhases[i])
		}
		if item["pid"] != float64(99) {
			t.Fatalf("item %d pid = %v", i, item["pid"])
		}
		if item["cat"] != "DEFAULT" {
			t.Fatalf("item %d cat = %v", i, item["cat"])
		}
	}
	if items[0]["tid"] != items[1]["tid"] {
		t.Fatalf("begin and end on different threads: %v vs %v", items[0]["tid"], items[1]["tid"])
	}
	args, _ := items[2]["args"].(map[string]any)
	if args[MemoryCounterName] != 12.5 {
		t.Fatalf("counter args = %v", items[2]["args"])
	}
}

func TestStreamTracerSkipClosingBracket(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, Config{Level: LevelPhase, ProcessID: 1, SkipClosingBracket: true}, FormatChrome)
	Begin(tr, ScopeCommand, "cmd").End()
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "[") || strings.HasSuffix(out, "]") {
		t.Fatalf("unexpected framing:\n%s", out)
	}
	// Emit after Close is dropped.
	Begin(tr, ScopeCommand, "late")
	if strings.Contains(buf.String(), "late") {
		t.Fatalf("event written after close")
	}
}

func TestStreamTracerEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, Config{Level: LevelPhase}, FormatChrome)
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if items := decodeArray(t, buf.Bytes()); len(items) != 0 {
		t.Fatalf("expected empty array, got %v", items)
	}
}

func TestTextFormat(t *testing.T) {
	ev := &Event{Phase: event.PhaseCounter, Name: "mem", Args: map[string]any{"b": 2, "a": 1}}
	got := string(FormatEvent(ev, FormatText, 1, 1500*time.Microsecond))
	if !strings.Contains(got, "# mem {a=1, b=2}") || !strings.Contains(got, "1.500ms") {
		t.Fatalf("unexpected text line %q", got)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Time: time.Now(), Phase: PhaseInstant, Scope: ScopeStage, Name: name})
	}
	snap := r.Snapshot()
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "c,d,e" {
		t.Fatalf("snapshot = %v, want c,d,e", names)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatChrome); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if items := decodeArray(t, buf.Bytes()); len(items) != 3 {
		t.Fatalf("dump has %d items", len(items))
	}
}

func TestNewSelectsTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("LevelOff should give Nop, got %T, %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, Format: FormatChrome})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if RingOf(tr) == nil {
		t.Fatalf("both mode must keep a ring")
	}
	Begin(tr, ScopeCommand, "cmd").End()
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(RingOf(tr).Snapshot()) != 2 {
		t.Fatalf("ring missed events")
	}
	if items := decodeArray(t, buf.Bytes()); len(items) != 2 {
		t.Fatalf("stream has %d items", len(items))
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context should give Nop")
	}
	r := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer lost in context")
	}
}

func TestMemorySampler(t *testing.T) {
	if StartMemorySampler(Nop, time.Millisecond) != nil {
		t.Fatalf("sampler on disabled tracer")
	}
	r := NewRingTracer(16, LevelPhase)
	m := StartMemorySampler(r, time.Hour)
	m.Stop()
	m.Stop()

	snap := r.Snapshot()
	if len(snap) == 0 || snap[0].Name != MemoryCounterName || snap[0].Phase != event.PhaseCounter {
		t.Fatalf("expected an initial memory sample, got %+v", snap)
	}
}
