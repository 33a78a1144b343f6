// Package explore answers cross-process questions about one event name.
package explore

import (
	"tracetool/internal/correlate"
	"tracetool/internal/event"
)

// Occurrence is one completed run of an event.
type Occurrence struct {
	ProcessID event.ProcessID
	Seconds   float64
}

// MinOccurrence finds the shortest completed occurrence of name across the
// whole list and the process of the End record that completed it. The
// boolean is false when no occurrence completed.
//
// In ModeByName the scan keeps only the latest Begin timestamp of name,
// whatever stream it came from, so interleaved occurrences in different
// processes may be paired with each other. ModeStack pairs within a stream.
func MinOccurrence(list event.List, name string, mode correlate.Mode) (Occurrence, bool) {
	if mode == correlate.ModeStack {
		return minOfPairs(list, name)
	}

	var (
		best    Occurrence
		found   bool
		start   int64
		started bool
	)
	for _, rec := range list {
		if rec.Name != name {
			continue
		}
		switch rec.Phase {
		case event.PhaseBegin:
			start = rec.Timestamp
			started = true
		case event.PhaseEnd:
			if !started {
				continue
			}
			secs := correlate.SecondsFromMicros(rec.Timestamp - start)
			if !found || secs < best.Seconds {
				best = Occurrence{ProcessID: rec.ProcessID, Seconds: secs}
				found = true
			}
		}
	}
	return best, found
}

func minOfPairs(list event.List, name string) (Occurrence, bool) {
	var (
		best  Occurrence
		found bool
	)
	for _, p := range correlate.Pairs(list, correlate.ModeStack) {
		if p.Name != name {
			continue
		}
		if secs := p.Seconds(); !found || secs < best.Seconds {
			best = Occurrence{ProcessID: p.End.ProcessID, Seconds: secs}
			found = true
		}
	}
	return best, found
}
