package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tracetool/internal/event"
	"tracetool/internal/tracefile"
)

// counts formats numbers with thousands separators.
var counts = message.NewPrinter(language.English)

// loadOptions builds loader options from the session configuration.
func loadOptions() (tracefile.Options, error) {
	opts := tracefile.Options{
		Jobs:   session.cfg.Merge.Jobs,
		Logger: session.log,
	}
	if session.cfg.Cache.Enabled {
		cache, err := tracefile.OpenCache(session.cfg.Cache.Dir, "tracetool")
		if err != nil {
			return tracefile.Options{}, fmt.Errorf("failed to open cache: %w", err)
		}
		session.log.Debug("using parse cache", zap.String("dir", cache.Dir()))
		opts.Cache = cache
	}
	return opts, nil
}

// loadEvents returns the events of one file, or of several files merged
// into the configured output first.
func loadEvents(cmd *cobra.Command, paths []string) (event.List, error) {
	if len(paths) == 1 {
		return withProgress(cmd, "loading", paths, func(ctx context.Context, opts tracefile.Options) (event.List, error) {
			frag, err := tracefile.Load(ctx, paths[0], opts)
			if err != nil {
				return nil, err
			}
			return frag.Events, nil
		})
	}
	return mergeEvents(cmd, paths, session.cfg.Merge.Output)
}

// mergeEvents merges paths into output and returns the merged events.
func mergeEvents(cmd *cobra.Command, paths []string, output string) (event.List, error) {
	return withProgress(cmd, "merging into "+output, paths, func(ctx context.Context, opts tracefile.Options) (event.List, error) {
		return tracefile.Merge(ctx, paths, output, opts)
	})
}

func withProgress(cmd *cobra.Command, title string, paths []string,
	load func(context.Context, tracefile.Options) (event.List, error)) (event.List, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return nil, err
	}

	var list event.List
	note := fmt.Sprintf("%d file(s)", len(paths))
	err = session.phase("load", note, func() error {
		var loadErr error
		if shouldUseTUI(mode, session.quiet) {
			list, loadErr = runLoadWithUI(cmd.Context(), title, paths, opts, load)
		} else {
			list, loadErr = load(cmd.Context(), opts)
		}
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	session.log.Info("events loaded", zap.String("count", counts.Sprintf("%d", len(list))))
	return list, nil
}
