// Package tracefile reads, repairs and merges trace fragments.
//
// A fragment is one trace file as written by a tracer: a JSON array of
// event objects, possibly cut short when the writing process was killed.
// Loading repairs the file in place before parsing it. Merging namespaces
// thread ids by source so that equal thread numbers from different files
// stay apart.
package tracefile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tracetool/internal/event"
	"tracetool/internal/trace"
)

// Options controls loading.
type Options struct {
	// Jobs bounds the number of fragments processed at once (0 = GOMAXPROCS).
	Jobs int
	// Logger receives diagnostics; nil disables logging.
	Logger *zap.Logger
	// Progress receives per-fragment progress; may be nil.
	Progress Sink
	// Cache short-cuts parsing of fragments seen before; may be nil.
	Cache *Cache
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Fragment is one loaded trace file.
type Fragment struct {
	Path     string
	Repaired bool
	Events   event.List
	// Objects holds the decoded JSON objects. It is nil when the events were
	// served from the cache.
	Objects []map[string]any
}

// Load repairs and parses one fragment.
func Load(ctx context.Context, path string, opts Options) (*Fragment, error) {
	return loadFragment(ctx, path, opts, false)
}

// LoadAll loads fragments in parallel. Results keep the input order; the
// first failure cancels the remaining work and is returned.
func LoadAll(ctx context.Context, paths []string, opts Options) ([]*Fragment, error) {
	return loadAll(ctx, paths, opts, false)
}

func loadAll(ctx context.Context, paths []string, opts Options, keepObjects bool) ([]*Fragment, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, p := range paths {
		report(opts.Progress, Progress{File: p, Stage: StageRepair, Status: StatusQueued})
	}

	// Each goroutine writes only its own index.
	results := make([]*Fragment, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			frag, err := loadFragment(gctx, path, opts, keepObjects)
			if err != nil {
				return err
			}
			results[i] = frag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadFragment(ctx context.Context, path string, opts Options, keepObjects bool) (*Fragment, error) {
	log := opts.logger().With(zap.String("file", path))
	started := time.Now()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "load:"+filepath.Base(path))
	defer span.End()

	fail := func(stage Stage, err error) (*Fragment, error) {
		report(opts.Progress, Progress{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return nil, err
	}

	report(opts.Progress, Progress{File: path, Stage: StageRepair, Status: StatusWorking})
	raw, err := readFragment(path)
	if err != nil {
		return fail(StageRepair, err)
	}
	data, repaired, err := repairBytes(path, raw)
	if err != nil {
		return fail(StageRepair, err)
	}
	if repaired {
		log.Info("repaired trace fragment", zap.Int("bytes_before", len(raw)), zap.Int("bytes_after", len(data)))
	}
	if err := ctx.Err(); err != nil {
		return fail(StageRepair, err)
	}

	report(opts.Progress, Progress{File: path, Stage: StageParse, Status: StatusWorking})
	frag := &Fragment{Path: path, Repaired: repaired}

	var key Digest
	if opts.Cache != nil && !keepObjects {
		key = DigestOf(data)
		events, hit, err := opts.Cache.Get(key)
		if err != nil {
			log.Warn("ignoring unreadable cache entry", zap.Error(err))
		}
		if hit {
			log.Debug("parse cache hit", zap.Int("events", len(events)))
			frag.Events = events
			report(opts.Progress, Progress{File: path, Stage: StageParse, Status: StatusDone, Elapsed: time.Since(started)})
			return frag, nil
		}
	}

	objs, err := DecodeObjects(data)
	if err != nil {
		return fail(StageParse, &MalformedTraceError{Path: path, Err: err})
	}
	events, err := event.FromObjects(objs)
	if err != nil {
		return fail(StageParse, &MalformedTraceError{Path: path, Err: err})
	}
	frag.Events = events
	if keepObjects {
		frag.Objects = objs
	}

	if opts.Cache != nil && !keepObjects {
		if err := opts.Cache.Put(key, path, events); err != nil {
			log.Warn("failed to store parse cache entry", zap.Error(err))
		}
	}

	log.Debug("loaded trace fragment", zap.Int("events", len(events)), zap.Duration("elapsed", time.Since(started)))
	report(opts.Progress, Progress{File: path, Stage: StageParse, Status: StatusDone, Elapsed: time.Since(started)})
	return frag, nil
}

// DecodeObjects decodes a trace in JSON Array Format or JSON Object Format
// ({"traceEvents": [...]}). Numbers are kept as json.Number.
func DecodeObjects(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty trace")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var objs []map[string]any
	if trimmed[0] == '{' {
		var file struct {
			TraceEvents []map[string]any `json:"traceEvents"`
		}
		if err := dec.Decode(&file); err != nil {
			return nil, err
		}
		objs = file.TraceEvents
	} else {
		if err := dec.Decode(&objs); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after trace at offset %d", dec.InputOffset())
	}
	return objs, nil
}
