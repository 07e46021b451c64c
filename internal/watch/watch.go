// Package watch monitors a directory and splits G-code files as they
// arrive.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/johns/gsplit/internal/config"
	"github.com/johns/gsplit/internal/job"
	"github.com/johns/gsplit/internal/output"
)

// Watcher picks up new G-code files in one directory and splits each at the
// configured layer.
type Watcher struct {
	dir string
	cfg config.Config
	log hclog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for dir. The logger may be nil.
func New(dir string, cfg config.Config, logger hclog.Logger) *Watcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Watcher{
		dir:     dir,
		cfg:     cfg,
		log:     logger,
		pending: make(map[string]*time.Timer),
	}
}

// Run blocks watching the directory until the context is cancelled. A file
// is processed once it has stopped changing for the configured settle
// window, so half-written files are not picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.log.Info("watching", "dir", w.dir,
		"split_at", w.cfg.Watch.SplitAt, "keep_skirt", w.cfg.Watch.KeepSkirt)

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.wants(ev.Name) {
				continue
			}
			w.schedule(ev.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)
		}
	}
}

// wants reports whether a path matches the configured patterns and is not
// one of our own outputs.
func (w *Watcher) wants(path string) bool {
	if output.IsSplitOutput(path) {
		return false
	}
	base := filepath.Base(path)
	for _, pat := range w.cfg.Watch.Patterns {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
	}
	return false
}

// schedule (re)arms the settle timer for a path. Every write resets the
// timer, so processing starts only after the file has been quiet.
func (w *Watcher) schedule(path string) {
	settle := time.Duration(w.cfg.Watch.SettleMillis) * time.Millisecond
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(settle)
		return
	}
	w.pending[path] = time.AfterFunc(settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.process(path)
	})
}

func (w *Watcher) process(path string) {
	w.log.Info("splitting", "file", path, "split_at", w.cfg.Watch.SplitAt)

	res, err := job.Run(path, w.cfg.Watch.SplitAt, w.cfg.Watch.KeepSkirt, w.cfg)
	if err != nil {
		w.log.Error("split failed", "file", path, "error", err)
		return
	}

	w.log.Info("split done", "file", path,
		"first", res.FirstPath, "first_layers", job.RangeString(res.FirstRange),
		"second", res.SecondPath, "second_layers", job.RangeString(res.SecondRange))
}

// drain stops all pending timers on shutdown.
func (w *Watcher) drain() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
