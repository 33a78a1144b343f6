// Package shell is the interactive front end over a loaded event list. It
// selects one process and thread, then serves a small menu of queries.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"tracetool/internal/correlate"
	"tracetool/internal/event"
	"tracetool/internal/explore"
	"tracetool/internal/index"
	"tracetool/internal/render"
	"tracetool/internal/stats"
)

// ErrNoEvents is returned by Run for an empty event list.
var ErrNoEvents = errors.New("no events to explore")

// Options configures a Shell.
type Options struct {
	In   io.Reader
	Out  io.Writer
	Mode correlate.Mode
	// DefaultMaxDepth answers an empty "max depth" prompt.
	DefaultMaxDepth int
	// DefaultTargetDepth answers an empty "target depth" prompt.
	DefaultTargetDepth int
	Color              bool
}

// Shell is one interactive session.
type Shell struct {
	list event.List
	opts Options
	in   *bufio.Scanner
	out  io.Writer

	promptColor *color.Color
	errColor    *color.Color

	pid event.ProcessID
	tid event.ThreadID
}

// New creates a session over list.
func New(list event.List, opts Options) *Shell {
	s := &Shell{
		list:        list,
		opts:        opts,
		in:          bufio.NewScanner(opts.In),
		out:         opts.Out,
		promptColor: color.New(color.FgCyan, color.Bold),
		errColor:    color.New(color.FgRed),
	}
	if !opts.Color {
		s.promptColor.DisableColor()
		s.errColor.DisableColor()
	}
	return s
}

// Selected returns the process and thread chosen at startup.
func (s *Shell) Selected() (event.ProcessID, event.ThreadID) {
	return s.pid, s.tid
}

// Run selects the stream and serves menu commands until "q", end of input
// or cancellation of ctx. End of input is not an error.
func (s *Shell) Run(ctx context.Context) error {
	if len(s.list) == 0 {
		return ErrNoEvents
	}
	err := s.run(ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		return nil
	}
	return err
}

func (s *Shell) run(ctx context.Context) error {
	if err := s.selectProcess(); err != nil {
		return err
	}
	if err := s.selectThread(); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "[t] print trace  [s] print stats  [e] explore  [q] quit")
		answer, err := s.ask("> ")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "t":
			err = s.printTrace()
		case "s":
			err = s.printStats()
		case "e":
			err = s.exploreEvent()
		case "q":
			return nil
		case "":
		default:
			s.complain("unknown command %q", answer)
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) selectProcess() error {
	ids := index.ProcessIDs(s.list)
	if len(ids) == 1 {
		s.pid = ids[0]
		fmt.Fprintf(s.out, "process: %s\n", s.pid)
		return nil
	}
	fmt.Fprintf(s.out, "processes: %s\n", joinIDs(ids))
	for {
		answer, err := s.ask("process id: ")
		if err != nil {
			return err
		}
		n, err := strconv.ParseInt(answer, 10, 64)
		if err == nil && slices.Contains(ids, event.ProcessID(n)) {
			s.pid = event.ProcessID(n)
			return nil
		}
		s.complain("unknown process id %q", answer)
	}
}

func (s *Shell) selectThread() error {
	ids := index.ThreadIDs(s.list, s.pid)
	if len(ids) == 1 {
		s.tid = ids[0]
		fmt.Fprintf(s.out, "thread: %s\n", s.tid)
		return nil
	}
	fmt.Fprintf(s.out, "threads: %s\n", joinIDs(ids))
	for {
		answer, err := s.ask("thread id: ")
		if err != nil {
			return err
		}
		if slices.Contains(ids, event.ThreadID(answer)) {
			s.tid = event.ThreadID(answer)
			return nil
		}
		s.complain("unknown thread id %q", answer)
	}
}

func (s *Shell) printTrace() error {
	depth, err := s.askDepth("max depth", s.opts.DefaultMaxDepth)
	if err != nil {
		return err
	}
	out := render.Tree(s.list, s.pid, s.tid, depth, s.opts.Mode)
	if out != "" {
		fmt.Fprintln(s.out, out)
	}
	return nil
}

func (s *Shell) printStats() error {
	depth, err := s.askDepth("target depth", s.opts.DefaultTargetDepth)
	if err != nil {
		return err
	}
	totals, _ := stats.Aggregate(s.list, depth, s.opts.Mode)
	fmt.Fprint(s.out, totals.Format())
	return nil
}

func (s *Shell) exploreEvent() error {
	for {
		name, err := s.ask("event name: ")
		if err != nil {
			return err
		}
		if name == "" {
			continue
		}
		occ, ok := explore.MinOccurrence(s.list, name, s.opts.Mode)
		if !ok {
			fmt.Fprintf(s.out, "no completed occurrence of %q\n", name)
			return nil
		}
		fmt.Fprintf(s.out, "min: process %s, %e seconds\n", occ.ProcessID, occ.Seconds)
		return nil
	}
}

// askDepth prompts for a non-negative integer; an empty answer is def.
func (s *Shell) askDepth(label string, def int) (int, error) {
	for {
		answer, err := s.ask(fmt.Sprintf("%s [%d]: ", label, def))
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return def, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 0 {
			return n, nil
		}
		s.complain("%s must be a non-negative integer, got %q", label, answer)
	}
}

// ask prints prompt and returns the trimmed next line, or io.EOF.
func (s *Shell) ask(prompt string) (string, error) {
	s.promptColor.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) complain(format string, args ...any) {
	s.errColor.Fprintf(s.out, format+"\n", args...)
}

func joinIDs[T fmt.Stringer](ids []T) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
