package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"tracetool/internal/correlate"
	"tracetool/internal/event"
)

// Entry is the cumulative time of one event name.
type Entry struct {
	Name    string
	Seconds float64
}

// Totals holds the per-name sums at one nesting depth, longest first.
type Totals struct {
	Depth   int
	Entries []Entry
}

// Aggregate sums the durations of every pair completed at exactly
// targetDepth over the whole list. The boolean is false when no pair
// completed at that depth; callers must report that case distinctly.
func Aggregate(list event.List, targetDepth int, mode correlate.Mode) (Totals, bool) {
	c := correlate.New(mode)
	index := make(map[string]int)
	var entries []Entry
	for _, rec := range list {
		step, ok := c.Feed(rec)
		if !ok || step.Kind != correlate.StepClose || step.Depth != targetDepth {
			continue
		}
		i, seen := index[step.Pair.Name]
		if !seen {
			i = len(entries)
			index[step.Pair.Name] = i
			entries = append(entries, Entry{Name: step.Pair.Name})
		}
		entries[i].Seconds += step.Pair.Seconds()
	}
	if len(entries) == 0 {
		return Totals{Depth: targetDepth}, false
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Seconds > entries[j].Seconds
	})
	return Totals{Depth: targetDepth, Entries: entries}, true
}

// NoEventsMessage is the text shown when Aggregate reports no events.
func NoEventsMessage(depth int) string {
	return fmt.Sprintf("no events at target depth: %d", depth)
}

// Map returns the totals keyed by event name.
func (t Totals) Map() map[string]float64 {
	out := make(map[string]float64, len(t.Entries))
	for _, e := range t.Entries {
		out[e.Name] = e.Seconds
	}
	return out
}

// Format renders one line per entry with the names right-aligned to the
// widest one.
func (t Totals) Format() string {
	if len(t.Entries) == 0 {
		return NoEventsMessage(t.Depth) + "\n"
	}
	width := 0
	for _, e := range t.Entries {
		width = max(width, runewidth.StringWidth(e.Name))
	}
	var sb strings.Builder
	for _, e := range t.Entries {
		sb.WriteString(runewidth.FillLeft(e.Name, width))
		fmt.Fprintf(&sb, " %e seconds\n", e.Seconds)
	}
	return sb.String()
}
