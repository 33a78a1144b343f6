package tracefile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"tracetool/internal/event"
	"tracetool/internal/trace"
)

// DefaultMergeOutput is the file Merge writes when no output is configured.
const DefaultMergeOutput = "merged.trace"

// Merge loads the fragments at paths, rewrites every thread id to
// "<path>.<tid>", concatenates the events in input order and writes them to
// output as an indented JSON array with sorted keys. An input naming the
// output file is skipped. The merged list is returned.
func Merge(ctx context.Context, paths []string, output string, opts Options) (event.List, error) {
	log := opts.logger()
	if output == "" {
		output = DefaultMergeOutput
	}

	inputs := make([]string, 0, len(paths))
	for _, p := range paths {
		if samePath(p, output) {
			log.Warn("skipping merge input that is the merge output", zap.String("file", p))
			continue
		}
		inputs = append(inputs, p)
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	frags, err := loadAll(ctx, inputs, opts, true)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "merge:write")
	defer span.End()
	report(opts.Progress, Progress{Stage: StageMerge, Status: StatusWorking})

	merged, err := NamespaceThreads(frags)
	if err != nil {
		report(opts.Progress, Progress{Stage: StageMerge, Status: StatusError, Err: err})
		return nil, err
	}
	list, err := event.FromObjects(merged)
	if err != nil {
		report(opts.Progress, Progress{Stage: StageMerge, Status: StatusError, Err: err})
		return nil, fmt.Errorf("merged trace: %w", err)
	}
	if err := writeMerged(output, merged); err != nil {
		report(opts.Progress, Progress{Stage: StageMerge, Status: StatusError, Err: err})
		return nil, err
	}

	log.Info("merged trace fragments",
		zap.Int("fragments", len(frags)),
		zap.Int("events", len(list)),
		zap.String("output", output))
	report(opts.Progress, Progress{Stage: StageMerge, Status: StatusDone, Elapsed: time.Since(started)})
	return list, nil
}

// NamespaceThreads concatenates the objects of frags, replacing each tid
// with "<fragment path>.<original tid>". The fragments are not modified.
func NamespaceThreads(frags []*Fragment) ([]map[string]any, error) {
	n := 0
	for _, f := range frags {
		n += len(f.Objects)
	}
	out := make([]map[string]any, 0, n)
	for _, f := range frags {
		for i, obj := range f.Objects {
			tid, err := event.FormatThreadID(obj[event.KeyThreadID])
			if err != nil {
				return nil, &MalformedTraceError{Path: f.Path, Err: fmt.Errorf("event %d: field %q: %w", i, event.KeyThreadID, err)}
			}
			cp := maps.Clone(obj)
			if cp == nil {
				cp = make(map[string]any, 1)
			}
			cp[event.KeyThreadID] = f.Path + "." + tid
			out = append(out, cp)
		}
	}
	return out, nil
}

// writeMerged writes objs with four-space indentation. encoding/json sorts
// map keys, so the output is reproducible.
func writeMerged(path string, objs []map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(objs); err != nil {
		return fmt.Errorf("failed to encode merged trace: %w", err)
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".merge-*")
	if err != nil {
		return fmt.Errorf("failed to create merge output: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write merge output: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write merge output: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write merge output: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write merge output: %w", err)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
