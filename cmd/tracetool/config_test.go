package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tracetool/internal/tracefile"
)

func writeConfig(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %s: %v", configFileName, err)
	}
	return path
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := findConfig(nested)
	if err != nil || !ok {
		t.Fatalf("findConfig = %q, %v, %v", got, ok, err)
	}
	if got != want {
		t.Fatalf("findConfig = %q, want %q", got, want)
	}
}

func TestLoadConfigFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[analysis]
mode = "stack"
target_depth = 1

[cache]
enabled = true
`)
	got, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	want := defaultConfig()
	want.Path = path
	want.Analysis.Mode = "stack"
	want.Analysis.TargetDepth = 1
	want.Cache.Enabled = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if got.Merge.Output != tracefile.DefaultMergeOutput {
		t.Fatalf("merge output = %q", got.Merge.Output)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"syntax", "[merge\n", "failed to parse TOML"},
		{"unknown key", "[merge]\nouptut = \"x\"\n", "unknown keys: merge.ouptut"},
		{"bad mode", "[analysis]\nmode = \"fifo\"\n", "fifo"},
		{"negative depth", "[analysis]\nmax_depth = -1\n", "max_depth"},
		{"empty output", "[merge]\noutput = \"\"\n", "[merge].output"},
		{"bad log level", "[log]\nlevel = \"loud\"\n", "invalid log level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.data)
			_, err := loadConfigFile(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) || !strings.Contains(err.Error(), path) {
				t.Fatalf("error %q should mention %q and the file", err, tc.want)
			}
		})
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for invalid ui mode")
	}
	if shouldUseTUI(uiModeOff, false) || !shouldUseTUI(uiModeOn, true) {
		t.Fatalf("explicit ui modes must win")
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	if _, err := newLogger("chatty", os.Stderr, false); err == nil {
		t.Fatalf("expected error for invalid level")
	}
	if _, err := newLogger("debug", os.Stderr, true); err != nil {
		t.Fatalf("newLogger(debug): %v", err)
	}
}
