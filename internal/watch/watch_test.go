package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/johns/gsplit/internal/config"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.History.Enabled = false
	cfg.Watch.SplitAt = 0
	cfg.Watch.SettleMillis = 50
	return cfg
}

func TestWants(t *testing.T) {
	w := New(t.TempDir(), testConfig(), nil)

	tests := []struct {
		path string
		want bool
	}{
		{"/in/benchy.gcode", true},
		{"/in/benchy.gcode.gz", true},
		{"/in/benchy.gcode.zst", true},
		{"/in/benchy.stl", false},
		{"/in/notes.txt", false},
		// Our own outputs must not be re-split.
		{"/in/benchy_layer_0.gcode", false},
		{"/in/benchy_layers_1_to_7_with_skirt.gcode", false},
	}
	for _, tt := range tests {
		if got := w.wants(tt.path); got != tt.want {
			t.Errorf("wants(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRun_SplitsNewFile(t *testing.T) {
	if testing.Short() {
		t.Skip("filesystem watch test")
	}

	dir := t.TempDir()
	w := New(dir, testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	gcode := ";LAYER:0\nG1 X1 Y1 E5\n;LAYER:1\nG1 X2 Y2 E8"
	input := filepath.Join(dir, "benchy.gcode")
	if err := os.WriteFile(input, []byte(gcode), 0o644); err != nil {
		t.Fatal(err)
	}

	firstOut := filepath.Join(dir, "benchy_layer_0.gcode")
	secondOut := filepath.Join(dir, "benchy_layer_1.gcode")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(firstOut); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if _, err := os.Stat(firstOut); err != nil {
		t.Fatalf("first output not created: %v", err)
	}
	if _, err := os.Stat(secondOut); err != nil {
		t.Fatalf("second output not created: %v", err)
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestSchedule_Debounce(t *testing.T) {
	w := New(t.TempDir(), testConfig(), nil)

	w.schedule("/in/a.gcode")
	w.schedule("/in/a.gcode") // resets, must not double-register

	w.mu.Lock()
	pending := len(w.pending)
	w.mu.Unlock()
	if pending != 1 {
		t.Errorf("pending timers = %d, want 1", pending)
	}

	w.drain()
	w.mu.Lock()
	pending = len(w.pending)
	w.mu.Unlock()
	if pending != 0 {
		t.Errorf("pending timers after drain = %d, want 0", pending)
	}
}
