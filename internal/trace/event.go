package trace

import (
	"time"

	"tracetool/internal/event"
)

// Phase codes written by the tracers, in addition to event.PhaseBegin,
// event.PhaseEnd and event.PhaseCounter.
const (
	PhaseInstant  event.Phase = "i"
	PhaseMetadata event.Phase = "M"
)

// Scope indicates the granularity level of the event.
// Lower numeric values represent higher-level/coarser events.
type Scope uint8

const (
	// ScopeCommand represents a whole CLI command.
	ScopeCommand Scope = iota + 1
	// ScopeStage represents a stage of a command (load, merge, query).
	ScopeStage
	// ScopeFile represents per-fragment work (more detailed).
	ScopeFile
	ScopeRecord // per-record work (most detailed)
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeStage:
		return "stage"
	case ScopeFile:
		return "file"
	case ScopeRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time      // wall-clock timestamp
	Seq      uint64         // global sequence number (monotonic)
	Phase    event.Phase    // B, E, C, i or M
	Scope    Scope          // granularity level
	GID      uint64         // goroutine ID, written as the thread id
	Name     string         // e.g. "load", "repair:trace_0.trace"
	Category string         // "cat" field; empty means "DEFAULT"
	Args     map[string]any // counter values or metadata
}
