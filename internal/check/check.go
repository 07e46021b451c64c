// Package check runs preflight checks on the gsplit environment.
package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johns/gsplit/internal/config"
	"github.com/johns/gsplit/internal/history"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "gsplit check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("gsplit check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// Run executes all preflight checks against the loaded config.
func Run(cfg config.Config) Report {
	var r Report
	r.Results = append(r.Results, CheckConfig(cfg))
	r.Results = append(r.Results, CheckOutputDir(cfg.OutputDir))
	r.Results = append(r.Results, CheckHistory(cfg))
	return r
}

// CheckConfig reports the resolved compression mode. Broken TOML is caught
// by config.Load before we get here.
func CheckConfig(cfg config.Config) Result {
	compress := cfg.Compress
	if compress == "" {
		compress = "none"
	}
	return Result{Name: "config", Status: Pass, Detail: "compress=" + compress}
}

// CheckOutputDir checks whether the configured output directory exists and
// is writable. An empty setting (outputs next to inputs) always passes.
func CheckOutputDir(dir string) Result {
	if dir == "" {
		return Result{Name: "output", Status: Pass, Detail: "next to input"}
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Result{Name: "output", Status: Fail, Detail: dir + " not found"}
	}

	probe := filepath.Join(dir, ".gsplit-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return Result{Name: "output", Status: Fail, Detail: dir + " not writable"}
	}
	os.Remove(probe)

	return Result{Name: "output", Status: Pass, Detail: dir}
}

// CheckHistory verifies the history database can be opened.
func CheckHistory(cfg config.Config) Result {
	if !cfg.History.Enabled {
		return Result{Name: "history", Status: Pass, Detail: "disabled"}
	}
	db, err := history.Open(cfg.StateDir())
	if err != nil {
		return Result{Name: "history", Status: Fail, Detail: err.Error()}
	}
	db.Close()
	return Result{Name: "history", Status: Pass, Detail: filepath.Join(cfg.StateDir(), "history.db")}
}
