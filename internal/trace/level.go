package trace

import (
	"fmt"
	"strings"

	"tracetool/internal/event"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // ring buffer only, dumped on crash
	LevelPhase               // commands and stages
	LevelDetail              // plus per-file work
	LevelDebug               // everything
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == want {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// maxScope is the finest scope recorded at each level.
var maxScope = [...]Scope{
	LevelOff:    0,
	LevelError:  0,
	LevelPhase:  ScopeStage,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeRecord,
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(maxScope) {
		return false
	}
	return scope != 0 && scope <= maxScope[l]
}

// accepts applies ShouldEmit, letting metadata through at any enabled level
// and counters from LevelPhase up.
func (l Level) accepts(ev *Event) bool {
	switch ev.Phase {
	case PhaseMetadata:
		return l > LevelOff
	case event.PhaseCounter:
		return l >= LevelPhase
	}
	return l.ShouldEmit(ev.Scope)
}
