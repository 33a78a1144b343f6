package event

import (
	"fmt"
	"strconv"
)

// Phase is the single-letter Trace Event Format phase code.
type Phase string

const (
	PhaseBegin   Phase = "B" // duration begin
	PhaseEnd     Phase = "E" // duration end
	PhaseCounter Phase = "C" // counter sample, never correlated
)

// String returns the raw phase code.
func (p Phase) String() string { return string(p) }

// ProcessID identifies the process that wrote a record.
type ProcessID int64

// String returns the decimal form of the id.
func (p ProcessID) String() string { return strconv.FormatInt(int64(p), 10) }

// ThreadID identifies a thread within a process. Numeric ids are kept in
// decimal form; merged traces use composite "<source>.<tid>" keys.
type ThreadID string

// String returns the thread key.
func (t ThreadID) String() string { return string(t) }

// Record is one trace entry. It is built once from its JSON object and is
// never modified afterwards.
type Record struct {
	Name      string    `msgpack:"n"`
	ProcessID ProcessID `msgpack:"p"`
	ThreadID  ThreadID  `msgpack:"t"`
	Timestamp int64     `msgpack:"ts"` // microseconds
	Phase     Phase     `msgpack:"ph"`
}

// IsBegin reports whether the record opens a duration event.
func (r Record) IsBegin() bool { return r.Phase == PhaseBegin }

// IsEnd reports whether the record closes a duration event.
func (r Record) IsEnd() bool { return r.Phase == PhaseEnd }

// Stream returns the (process, thread) pair the record belongs to.
func (r Record) Stream() Stream {
	return Stream{ProcessID: r.ProcessID, ThreadID: r.ThreadID}
}

func (r Record) String() string {
	return fmt.Sprintf("%s %q pid=%d tid=%s ts=%d", r.Phase, r.Name, r.ProcessID, r.ThreadID, r.Timestamp)
}

// Stream is a (process, thread) key. Timestamps are only comparable within
// a single stream.
type Stream struct {
	ProcessID ProcessID
	ThreadID  ThreadID
}

func (s Stream) String() string {
	return fmt.Sprintf("%d/%s", s.ProcessID, s.ThreadID)
}
