package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"tracetool/internal/event"
	"tracetool/internal/index"
	"tracetool/internal/render"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file.trace>...",
	Short: "Print the nested begin/end events of one thread",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().Int64("pid", 0, "process id (required when the trace has several)")
	treeCmd.Flags().String("tid", "", "thread id (required when the process has several)")
	treeCmd.Flags().Int("max-depth", 0, "deepest nesting level to print (default from config)")
}

func runTree(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	maxDepth := session.cfg.Analysis.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		var err error
		if maxDepth, err = cmd.Flags().GetInt("max-depth"); err != nil {
			return fmt.Errorf("failed to get max-depth flag: %w", err)
		}
		if maxDepth < 0 {
			return fmt.Errorf("--max-depth must not be negative")
		}
	}

	list, err := loadEvents(cmd, args)
	if err != nil {
		return err
	}
	pid, tid, err := selectStream(cmd, list)
	if err != nil {
		return err
	}

	var out string
	_ = session.phase("query", "tree", func() error {
		out = render.Tree(list, pid, tid, maxDepth, session.cfg.mode())
		return nil
	})
	if out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	return nil
}

// selectStream resolves --pid and --tid, picking the only candidate when
// the flag is not set.
func selectStream(cmd *cobra.Command, list event.List) (event.ProcessID, event.ThreadID, error) {
	pids := index.ProcessIDs(list)
	if len(pids) == 0 {
		return 0, "", fmt.Errorf("trace has no events")
	}

	var pid event.ProcessID
	if cmd.Flags().Changed("pid") {
		v, err := cmd.Flags().GetInt64("pid")
		if err != nil {
			return 0, "", fmt.Errorf("failed to get pid flag: %w", err)
		}
		pid = event.ProcessID(v)
		if !slices.Contains(pids, pid) {
			return 0, "", fmt.Errorf("process %d not in trace (have %s)", v, joinIDs(pids))
		}
	} else {
		if len(pids) > 1 {
			return 0, "", fmt.Errorf("trace has several processes (%s); choose one with --pid", joinIDs(pids))
		}
		pid = pids[0]
	}

	tids := index.ThreadIDs(list, pid)
	tidValue, err := cmd.Flags().GetString("tid")
	if err != nil {
		return 0, "", fmt.Errorf("failed to get tid flag: %w", err)
	}
	if tidValue != "" {
		tid := event.ThreadID(tidValue)
		if !slices.Contains(tids, tid) {
			return 0, "", fmt.Errorf("thread %q not in process %d (have %s)", tidValue, pid, joinIDs(tids))
		}
		return pid, tid, nil
	}
	if len(tids) > 1 {
		return 0, "", fmt.Errorf("process %d has several threads (%s); choose one with --tid", pid, joinIDs(tids))
	}
	return pid, tids[0], nil
}

func joinIDs[T fmt.Stringer](ids []T) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
