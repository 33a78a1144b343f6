package trace

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// StreamTracer writes events to an io.Writer as they arrive. In Chrome
// format the output is a JSON array: "[" on creation, one object per line
// and "]" on Close.
type StreamTracer struct {
	mu          sync.Mutex
	dst         io.Writer
	w           *bufio.Writer
	level       Level
	format      Format
	pid         int64
	start       time.Time
	first       bool
	flushAlways bool
	skipClose   bool
	closed      bool
}

// NewStreamTracer creates a StreamTracer. Timestamps are measured from
// this call.
func NewStreamTracer(w io.Writer, cfg Config, format Format) *StreamTracer {
	st := &StreamTracer{
		dst:         w,
		w:           bufio.NewWriter(w),
		level:       cfg.Level,
		format:      format,
		pid:         cfg.ProcessID,
		start:       time.Now(),
		first:       true,
		flushAlways: cfg.FlushAlways,
		skipClose:   cfg.SkipClosingBracket,
	}

	if format == FormatChrome {
		// Best-effort write - tracing never fails the traced program
		_, _ = st.w.WriteString("[") //nolint:errcheck
	}

	return st
}

// Emit writes an event to the output.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}

	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	data := FormatEvent(ev, t.format, t.pid, ev.Time.Sub(t.start))
	if t.format == FormatChrome {
		if !t.first {
			_, _ = t.w.WriteString(",") //nolint:errcheck
		}
		_, _ = t.w.WriteString("\n") //nolint:errcheck
		t.first = false
	}
	_, _ = t.w.Write(data) //nolint:errcheck
	if t.flushAlways {
		_ = t.w.Flush()
	}
}

// Flush writes buffered events to the underlying writer.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *StreamTracer) flushLocked() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	if flusher, ok := t.dst.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close writes the footer unless SkipClosingBracket was set, flushes, and
// closes the writer if it implements io.Closer.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	if t.format == FormatChrome && !t.skipClose {
		_, _ = t.w.WriteString("\n]\n") //nolint:errcheck
	}
	if err := t.flushLocked(); err != nil {
		return err
	}
	if _, std := t.dst.(nopCloser); std {
		return nil
	}
	if closer, ok := t.dst.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Level returns the current tracing level.
func (t *StreamTracer) Level() Level {
	return t.level
}

// Enabled returns true if tracing is active.
func (t *StreamTracer) Enabled() bool {
	return t.level > LevelOff
}
