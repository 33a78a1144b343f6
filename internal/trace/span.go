package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"tracetool/internal/event"
)

var globalSeq uint64

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

// getGoroutineID extracts the current goroutine ID using runtime.Stack.
// This is a lightweight approach that doesn't require linkname or unsafe.
func getGoroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	// Stack format: "goroutine 123 [running]:\n..."
	// Extract the number between "goroutine " and " ["
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}

	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}

	gid, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span pairs a Begin record with its End record. The End is emitted on the
// goroutine that began the span so both land on the same thread id.
type Span struct {
	tracer  Tracer
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	ended   bool
}

// Begin starts a new span and emits its Begin record.
func Begin(t Tracer, scope Scope, name string) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}

	gid := getGoroutineID()
	now := time.Now()

	t.Emit(&Event{
		Time:  now,
		Phase: event.PhaseBegin,
		Scope: scope,
		GID:   gid,
		Name:  name,
	})

	return &Span{
		tracer:  t,
		gid:     gid,
		scope:   scope,
		name:    name,
		started: now,
	}
}

// End emits the End record and returns the span duration. Calling End
// twice emits nothing the second time.
func (s *Span) End() time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() || s.ended {
		return 0
	}
	s.ended = true

	now := time.Now()
	s.tracer.Emit(&Event{
		Time:  now,
		Phase: event.PhaseEnd,
		Scope: s.scope,
		GID:   s.gid,
		Name:  s.name,
	})

	return now.Sub(s.started)
}

// Name returns the span name.
func (s *Span) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Counter emits a counter record with a single named value.
func Counter(t Tracer, name string, value float64) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{
		Time:  time.Now(),
		Phase: event.PhaseCounter,
		GID:   getGoroutineID(),
		Name:  name,
		Args:  map[string]any{name: value},
	})
}

// Instant emits an instant record at the given scope.
func Instant(t Tracer, scope Scope, name string, args map[string]any) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{
		Time:  time.Now(),
		Phase: PhaseInstant,
		Scope: scope,
		GID:   getGoroutineID(),
		Name:  name,
		Args:  args,
	})
}

// ProcessName emits the process_name metadata record viewers use as a label.
func ProcessName(t Tracer, name string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{
		Time:  time.Now(),
		Phase: PhaseMetadata,
		GID:   getGoroutineID(),
		Name:  "process_name",
		Args:  map[string]any{"name": name},
	})
}
