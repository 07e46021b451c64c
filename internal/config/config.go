package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all gsplit configuration.
type Config struct {
	// OutputDir receives the split files; empty means next to the input.
	OutputDir string `toml:"output_dir"`

	// Compress selects output compression: "none", "gzip" or "zstd".
	// Compressed inputs are always detected by extension regardless.
	Compress string `toml:"compress"`

	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
	Log     LogConfig     `toml:"log"`
}

type HistoryConfig struct {
	Enabled  bool   `toml:"enabled"`
	StateDir string `toml:"state_dir"`
}

type WatchConfig struct {
	// SplitAt is the layer boundary applied to files picked up in watch
	// mode.
	SplitAt   int      `toml:"split_at"`
	KeepSkirt bool     `toml:"keep_skirt"`
	Patterns  []string `toml:"patterns"`

	// SettleMillis is how long a file must stop growing before it is
	// considered fully written.
	SettleMillis int `toml:"settle_millis"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		OutputDir: "",
		Compress:  "none",
		History: HistoryConfig{
			Enabled:  true,
			StateDir: "~/.local/state/gsplit",
		},
		Watch: WatchConfig{
			SplitAt:      0,
			KeepSkirt:    false,
			Patterns:     []string{"*.gcode", "*.gcode.gz", "*.gcode.zst"},
			SettleMillis: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.OutputDir = expandHome(cfg.OutputDir)
	cfg.History.StateDir = expandHome(cfg.History.StateDir)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Compress {
	case "", "none", "gzip", "zstd":
	default:
		return fmt.Errorf("invalid compress mode %q (want none, gzip or zstd)", c.Compress)
	}
	switch c.Log.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Watch.SplitAt < 0 {
		return fmt.Errorf("watch.split_at must be >= 0, got %d", c.Watch.SplitAt)
	}
	return nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "gsplit", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "gsplit", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// StateDir returns the directory holding the history database.
func (c Config) StateDir() string {
	return c.History.StateDir
}
