// Package correlate pairs Begin and End trace records into completed
// events with a duration and a nesting depth.
//
// Two matching schemes are available. ModeByName reproduces the legacy
// behaviour: one open frame per event name and a single depth counter over
// everything fed to the correlator, so a second Begin of an already open
// name is dropped and streams are not separated. ModeStack keeps an explicit
// call stack per (process, thread) stream, so same-named nested frames are
// told apart by push order.
//
// A Correlator holds the open-event state of exactly one pass. Create a new
// one for every query.
package correlate

import (
	"fmt"
	"strings"

	"tracetool/internal/event"
)

// Mode selects the matching scheme.
type Mode uint8

const (
	ModeByName Mode = iota // one open frame per name, whole input
	ModeStack              // push-order stack per (process, thread)
)

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeByName:
		return "name"
	case ModeStack:
		return "stack"
	default:
		return "unknown"
	}
}

// ParseMode converts a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return ModeByName, nil
	case "stack":
		return ModeStack, nil
	default:
		return ModeByName, fmt.Errorf("invalid correlation mode: %q (expected: name|stack)", s)
	}
}

// StepKind tells what a fed record did to the open-event state.
type StepKind uint8

const (
	StepOpen  StepKind = iota + 1 // a Begin was accepted
	StepClose                     // an End completed a pair
)

// Step is the outcome of feeding one record.
type Step struct {
	Kind   StepKind
	Record event.Record
	// Depth is the nesting level the event occupies: 0 for an outermost
	// event. For StepClose it equals Pair.Depth.
	Depth int
	Pair  Pair // valid for StepClose
}

// Pair is a completed Begin/End match.
type Pair struct {
	Name  string
	Begin event.Record
	End   event.Record
	Depth int
}

// Micros returns the raw duration in microseconds.
func (p Pair) Micros() int64 { return p.End.Timestamp - p.Begin.Timestamp }

// Seconds returns the duration in seconds.
func (p Pair) Seconds() float64 { return SecondsFromMicros(p.Micros()) }

// SecondsFromMicros converts a microsecond count to seconds.
func SecondsFromMicros(us int64) float64 {
	return float64(us) / 1_000_000
}

// Correlator is the per-pass matching state.
type Correlator struct {
	mode Mode

	// ModeByName
	depth int
	open  map[string]event.Record

	// ModeStack
	stacks map[event.Stream][]event.Record
}

// New returns an empty correlator.
func New(mode Mode) *Correlator {
	c := &Correlator{mode: mode}
	switch mode {
	case ModeStack:
		c.stacks = make(map[event.Stream][]event.Record)
	default:
		c.open = make(map[string]event.Record)
	}
	return c
}

// Mode returns the matching scheme in use.
func (c *Correlator) Mode() Mode { return c.mode }

// Feed advances the state by one record. It returns false when the record
// changed nothing: non-duration phases, a Begin for an already open name
// (ModeByName), or an End with no open partner.
func (c *Correlator) Feed(rec event.Record) (Step, bool) {
	switch rec.Phase {
	case event.PhaseBegin:
		if c.mode == ModeStack {
			return c.pushFrame(rec), true
		}
		return c.openByName(rec)
	case event.PhaseEnd:
		if c.mode == ModeStack {
			return c.popFrame(rec)
		}
		return c.closeByName(rec)
	default:
		return Step{}, false
	}
}

// Open returns the number of begun but not yet completed events.
func (c *Correlator) Open() int {
	if c.mode == ModeStack {
		n := 0
		for _, st := range c.stacks {
			n += len(st)
		}
		return n
	}
	return len(c.open)
}

func (c *Correlator) openByName(rec event.Record) (Step, bool) {
	if _, busy := c.open[rec.Name]; busy {
		return Step{}, false
	}
	c.open[rec.Name] = rec
	step := Step{Kind: StepOpen, Record: rec, Depth: c.depth}
	c.depth++
	return step, true
}

func (c *Correlator) closeByName(rec event.Record) (Step, bool) {
	begin, ok := c.open[rec.Name]
	if !ok {
		return Step{}, false
	}
	delete(c.open, rec.Name)
	c.depth--
	pair := Pair{Name: rec.Name, Begin: begin, End: rec, Depth: c.depth}
	return Step{Kind: StepClose, Record: rec, Depth: c.depth, Pair: pair}, true
}

func (c *Correlator) pushFrame(rec event.Record) Step {
	key := rec.Stream()
	st := c.stacks[key]
	depth := len(st)
	c.stacks[key] = append(st, rec)
	return Step{Kind: StepOpen, Record: rec, Depth: depth}
}

// popFrame closes the innermost frame with a matching name. Frames opened
// above it never received an End and are discarded.
func (c *Correlator) popFrame(rec event.Record) (Step, bool) {
	key := rec.Stream()
	st := c.stacks[key]
	for i := len(st) - 1; i >= 0; i-- {
		if st[i].Name != rec.Name {
			continue
		}
		begin := st[i]
		c.stacks[key] = st[:i]
		pair := Pair{Name: rec.Name, Begin: begin, End: rec, Depth: i}
		return Step{Kind: StepClose, Record: rec, Depth: i, Pair: pair}, true
	}
	return Step{}, false
}

// Pairs runs a fresh correlator over list and returns every completed pair
// in completion order.
func Pairs(list event.List, mode Mode) []Pair {
	c := New(mode)
	var out []Pair
	for _, rec := range list {
		step, ok := c.Feed(rec)
		if ok && step.Kind == StepClose {
			out = append(out, step.Pair)
		}
	}
	return out
}
