package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"tracetool/internal/correlate"
	"tracetool/internal/tracefile"
)

const configFileName = "tracetool.toml"

type toolConfig struct {
	Path     string         `toml:"-"`
	Merge    mergeConfig    `toml:"merge"`
	Analysis analysisConfig `toml:"analysis"`
	Cache    cacheConfig    `toml:"cache"`
	Log      logConfig      `toml:"log"`
}

type mergeConfig struct {
	Output string `toml:"output"`
	Jobs   int    `toml:"jobs"`
}

type analysisConfig struct {
	Mode        string `toml:"mode"`
	MaxDepth    int    `toml:"max_depth"`
	TargetDepth int    `toml:"target_depth"`
}

type cacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type logConfig struct {
	Level string `toml:"level"`
}

func defaultConfig() toolConfig {
	return toolConfig{
		Merge:    mergeConfig{Output: tracefile.DefaultMergeOutput},
		Analysis: analysisConfig{Mode: correlate.ModeByName.String(), MaxDepth: 2},
		Log:      logConfig{Level: "warn"},
	}
}

// mode returns the parsed matching scheme.
func (c toolConfig) mode() correlate.Mode {
	m, err := correlate.ParseMode(c.Analysis.Mode)
	if err != nil {
		return correlate.ModeByName
	}
	return m
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfigFile decodes path over the defaults. Keys the file leaves out
// keep their default values.
func loadConfigFile(path string) (toolConfig, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return toolConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return toolConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("merge", "output") && strings.TrimSpace(cfg.Merge.Output) == "" {
		return toolConfig{}, fmt.Errorf("%s: [merge].output must not be empty", path)
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return toolConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c toolConfig) validate() error {
	if _, err := correlate.ParseMode(c.Analysis.Mode); err != nil {
		return err
	}
	if c.Analysis.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.Analysis.MaxDepth)
	}
	if c.Analysis.TargetDepth < 0 {
		return fmt.Errorf("target_depth must not be negative, got %d", c.Analysis.TargetDepth)
	}
	if c.Merge.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Merge.Jobs)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", c.Log.Level)
	}
	return nil
}

// resolveConfig loads the file named by --config, or the nearest
// tracetool.toml, and applies explicitly set flags on top.
func resolveConfig(cmd *cobra.Command) (toolConfig, error) {
	root := cmd.Root()
	path, err := root.PersistentFlags().GetString("config")
	if err != nil {
		return toolConfig{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg := defaultConfig()
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil {
			return toolConfig{}, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		cfg, err = loadConfigFile(path)
		if err != nil {
			return toolConfig{}, err
		}
	}

	flags := root.PersistentFlags()
	if flags.Changed("mode") {
		if cfg.Analysis.Mode, err = flags.GetString("mode"); err != nil {
			return toolConfig{}, fmt.Errorf("failed to get mode flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if cfg.Merge.Jobs, err = flags.GetInt("jobs"); err != nil {
			return toolConfig{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("cache") {
		if cfg.Cache.Enabled, err = flags.GetBool("cache"); err != nil {
			return toolConfig{}, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if flags.Changed("log-level") {
		if cfg.Log.Level, err = flags.GetString("log-level"); err != nil {
			return toolConfig{}, fmt.Errorf("failed to get log-level flag: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return toolConfig{}, err
	}
	return cfg, nil
}
