// Package render draws the call tree of one (process, thread) stream as
// indented text.
package render

import (
	"strconv"
	"strings"

	"tracetool/internal/correlate"
	"tracetool/internal/event"
)

// Tree renders the stream selected by pid and tid. Every accepted Begin at
// depth <= maxDepth produces a line with the event name, and its End a line
// with the elapsed seconds, both indented by two spaces per level. Deeper
// events print nothing but still count for the depth of later siblings.
func Tree(list event.List, pid event.ProcessID, tid event.ThreadID, maxDepth int, mode correlate.Mode) string {
	c := correlate.New(mode)
	var lines []string
	for _, rec := range list {
		if rec.ProcessID != pid || rec.ThreadID != tid {
			continue
		}
		step, ok := c.Feed(rec)
		if !ok || step.Depth > maxDepth {
			continue
		}
		switch step.Kind {
		case correlate.StepOpen:
			lines = append(lines, indent(step.Depth)+rec.Name)
		case correlate.StepClose:
			lines = append(lines, indent(step.Depth)+rec.Name+" ("+FormatSeconds(step.Pair.Seconds())+" seconds)")
		}
	}
	return strings.Join(lines, "\n")
}

// FormatSeconds prints the shortest decimal that round-trips, e.g. 0.38.
func FormatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

func indent(depth int) string {
	return strings.Repeat(" ", 2*depth)
}
