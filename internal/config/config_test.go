package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutputDir != "" {
		t.Errorf("OutputDir = %q, want empty (next to input)", cfg.OutputDir)
	}
	if cfg.Compress != "none" {
		t.Errorf("Compress = %q, want none", cfg.Compress)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should default to true")
	}
	if cfg.History.StateDir != "~/.local/state/gsplit" {
		t.Errorf("History.StateDir = %q", cfg.History.StateDir)
	}
	if cfg.Watch.SplitAt != 0 {
		t.Errorf("Watch.SplitAt = %d, want 0", cfg.Watch.SplitAt)
	}
	if cfg.Watch.SettleMillis != 500 {
		t.Errorf("Watch.SettleMillis = %d, want 500", cfg.Watch.SettleMillis)
	}
	if len(cfg.Watch.Patterns) == 0 {
		t.Error("Watch.Patterns should have defaults")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_NoConfig(t *testing.T) {
	// Point XDG to an empty dir so no config file is found
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Defaults with ~ expanded
	if strings.HasPrefix(cfg.History.StateDir, "~/") {
		t.Errorf("StateDir not expanded: %q", cfg.History.StateDir)
	}
	if !strings.HasSuffix(cfg.History.StateDir, filepath.Join(".local", "state", "gsplit")) {
		t.Errorf("StateDir = %q", cfg.History.StateDir)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "gsplit")
	os.MkdirAll(configDir, 0o755)

	tomlContent := `output_dir = "/prints/out"
compress = "gzip"

[history]
enabled = false

[watch]
split_at = 3
keep_skirt = true
settle_millis = 100

[log]
level = "debug"
`
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(tomlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OutputDir != "/prints/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Compress != "gzip" {
		t.Errorf("Compress = %q", cfg.Compress)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should be false")
	}
	if cfg.Watch.SplitAt != 3 || !cfg.Watch.KeepSkirt {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
	if cfg.Watch.SettleMillis != 100 {
		t.Errorf("Watch.SettleMillis = %d", cfg.Watch.SettleMillis)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoad_InvalidCompress(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "gsplit")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(`compress = "lzma"`), 0o644)

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid compress mode")
	}
}

func TestLoad_InvalidWatchLayer(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "gsplit")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[watch]\nsplit_at = -1\n"), 0o644)

	if _, err := Load(); err == nil {
		t.Error("expected error for negative watch.split_at")
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	if got := expandHome("~/x"); got != "/home/tester/x" {
		t.Errorf("expandHome(~/x) = %q", got)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome(/abs/path) = %q", got)
	}
}
