package trace

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"fortio.org/safecast"

	"tracetool/internal/event"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatChrome               // Chrome Trace Event JSON array
	FormatText                 // human-readable lines
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "chrome", "json":
		return FormatChrome, nil
	case "text":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|chrome|text)", s)
	}
}

// chromeItem keeps the key order of the native tracer output.
type chromeItem struct {
	Category  string         `json:"cat"`
	ProcessID int64          `json:"pid"`
	ThreadID  int64          `json:"tid"`
	Timestamp int64          `json:"ts"`
	Phase     string         `json:"ph"`
	Name      string         `json:"name"`
	Args      map[string]any `json:"args,omitempty"`
}

// FormatEvent formats an event. pid is written as the process id and
// elapsed, in microseconds, as the timestamp.
func FormatEvent(ev *Event, format Format, pid int64, elapsed time.Duration) []byte {
	if format == FormatText {
		return formatText(ev, elapsed)
	}
	return formatChrome(ev, pid, elapsed)
}

func formatChrome(ev *Event, pid int64, elapsed time.Duration) []byte {
	cat := ev.Category
	if cat == "" {
		cat = "DEFAULT"
	}
	tid, err := safecast.Conv[int64](ev.GID)
	if err != nil {
		tid = 0
	}
	data, err := json.Marshal(chromeItem{
		Category:  cat,
		ProcessID: pid,
		ThreadID:  tid,
		Timestamp: elapsed.Microseconds(),
		Phase:     string(ev.Phase),
		Name:      ev.Name,
		Args:      ev.Args,
	})
	if err != nil {
		// Args with unsupported values; keep the event, drop the args.
		data, _ = json.Marshal(chromeItem{
			Category: cat, ProcessID: pid, ThreadID: tid,
			Timestamp: elapsed.Microseconds(), Phase: string(ev.Phase), Name: ev.Name,
		})
	}
	return data
}

// formatText formats an event as human-readable text.
// Format: [elapsed] →/←/#/• name {args}
func formatText(ev *Event, elapsed time.Duration) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%10.3fms] ", float64(elapsed)/float64(time.Millisecond))

	switch ev.Phase {
	case event.PhaseBegin:
		sb.WriteString("\u2192 ") // →
	case event.PhaseEnd:
		sb.WriteString("\u2190 ") // ←
	case event.PhaseCounter:
		sb.WriteString("# ")
	default:
		sb.WriteString("\u2022 ") // •
	}
	sb.WriteString(ev.Name)

	if len(ev.Args) > 0 {
		keys := make([]string, 0, len(ev.Args))
		for k := range ev.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, ev.Args[k])
		}
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	return []byte(sb.String())
}
