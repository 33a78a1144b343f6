// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"tracetool/internal/correlate"
	"tracetool/internal/event"
)

// CheckStackPairs runs a minimal set of invariants on pairs produced in
// correlate.ModeStack:
// 1) begin and end share name and stream, and the end is not earlier
// 2) depth is never negative
// 3) every pair at depth d > 0 lies inside a pair of depth d-1 on its stream
func CheckStackPairs(pairs []correlate.Pair) error {
	byStream := make(map[event.Stream][]correlate.Pair)
	for i, p := range pairs {
		if p.Begin.Name != p.Name || p.End.Name != p.Name {
			return fmt.Errorf("pair %d: names differ: begin %q end %q pair %q", i, p.Begin.Name, p.End.Name, p.Name)
		}
		if p.Begin.Stream() != p.End.Stream() {
			return fmt.Errorf("pair %d (%s): begin on %s, end on %s", i, p.Name, p.Begin.Stream(), p.End.Stream())
		}
		if p.End.Timestamp < p.Begin.Timestamp {
			return fmt.Errorf("pair %d (%s): ends at %d before it begins at %d", i, p.Name, p.End.Timestamp, p.Begin.Timestamp)
		}
		if p.Depth < 0 {
			return fmt.Errorf("pair %d (%s): negative depth %d", i, p.Name, p.Depth)
		}
		byStream[p.Begin.Stream()] = append(byStream[p.Begin.Stream()], p)
	}

	for stream, ps := range byStream {
		for _, p := range ps {
			if p.Depth == 0 {
				continue
			}
			if !hasParent(ps, p) {
				return fmt.Errorf("%s: %s at depth %d has no enclosing pair at depth %d", stream, p.Name, p.Depth, p.Depth-1)
			}
		}
	}
	return nil
}

func hasParent(ps []correlate.Pair, child correlate.Pair) bool {
	for _, p := range ps {
		if p.Depth == child.Depth-1 &&
			p.Begin.Timestamp <= child.Begin.Timestamp &&
			p.End.Timestamp >= child.End.Timestamp {
			return true
		}
	}
	return false
}
