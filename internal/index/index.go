// Package index derives the processes and threads present in an event list.
// Results are computed on every call and returned sorted.
package index

import (
	"slices"
	"strconv"

	"tracetool/internal/event"
)

// ProcessIDs returns the distinct process ids in ascending order.
func ProcessIDs(list event.List) []event.ProcessID {
	seen := make(map[event.ProcessID]struct{})
	var ids []event.ProcessID
	for _, rec := range list {
		if _, ok := seen[rec.ProcessID]; ok {
			continue
		}
		seen[rec.ProcessID] = struct{}{}
		ids = append(ids, rec.ProcessID)
	}
	slices.Sort(ids)
	return ids
}

// ThreadIDs returns the distinct thread ids of process pid, numeric ids
// first in numeric order, then composite keys in lexical order.
func ThreadIDs(list event.List, pid event.ProcessID) []event.ThreadID {
	seen := make(map[event.ThreadID]struct{})
	var ids []event.ThreadID
	for _, rec := range list {
		if rec.ProcessID != pid {
			continue
		}
		if _, ok := seen[rec.ThreadID]; ok {
			continue
		}
		seen[rec.ThreadID] = struct{}{}
		ids = append(ids, rec.ThreadID)
	}
	slices.SortFunc(ids, CompareThreadIDs)
	return ids
}

// CompareThreadIDs orders numeric ids numerically and before any
// non-numeric id.
func CompareThreadIDs(a, b event.ThreadID) int {
	na, errA := strconv.ParseInt(string(a), 10, 64)
	nb, errB := strconv.ParseInt(string(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Summary describes one process and its threads.
type Summary struct {
	ProcessID event.ProcessID `json:"pid"`
	Threads   []ThreadSummary `json:"threads"`
}

// ThreadSummary describes one thread and how many records it wrote.
type ThreadSummary struct {
	ThreadID event.ThreadID `json:"tid"`
	Records  int            `json:"records"`
}

// Summarize lists every process with its threads and record counts.
func Summarize(list event.List) []Summary {
	counts := make(map[event.Stream]int)
	for _, rec := range list {
		counts[rec.Stream()]++
	}
	pids := ProcessIDs(list)
	out := make([]Summary, 0, len(pids))
	for _, pid := range pids {
		s := Summary{ProcessID: pid}
		for _, tid := range ThreadIDs(list, pid) {
			s.Threads = append(s.Threads, ThreadSummary{
				ThreadID: tid,
				Records:  counts[event.Stream{ProcessID: pid, ThreadID: tid}],
			})
		}
		out = append(out, s)
	}
	return out
}
