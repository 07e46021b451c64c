// Package job runs one complete split: read, segment, partition, write,
// record.
package job

import (
	"fmt"
	"log"

	"github.com/johns/gsplit/internal/config"
	"github.com/johns/gsplit/internal/history"
	"github.com/johns/gsplit/internal/output"
	"github.com/johns/gsplit/internal/segment"
	"github.com/johns/gsplit/internal/split"
)

// Result holds the outcome of a split job.
type Result struct {
	Input      string
	FirstPath  string
	SecondPath string

	FirstRange  split.LayerRange
	SecondRange split.LayerRange
	SkirtKept   bool

	Lines    int
	Segments int
}

// Run splits one G-code file and writes both outputs. No output file is
// written when parsing fails partway.
func Run(inputPath string, splitAt int, keepSkirt bool, cfg config.Config) (*Result, error) {
	text, err := output.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	lines := segment.SplitLines(text)
	segments, err := segment.Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("parse gcode: %w", err)
	}

	res := split.Split(segments, splitAt, keepSkirt)

	firstPath := output.DerivePath(inputPath,
		output.Suffix(res.FirstRange, false), cfg.OutputDir, cfg.Compress)
	secondPath := output.DerivePath(inputPath,
		output.Suffix(res.SecondRange, res.SkirtKept), cfg.OutputDir, cfg.Compress)

	if err := output.WriteFile(firstPath, split.Serialize(res.First)); err != nil {
		return nil, err
	}
	if err := output.WriteFile(secondPath, split.Serialize(res.Second)); err != nil {
		return nil, err
	}

	result := &Result{
		Input:       inputPath,
		FirstPath:   firstPath,
		SecondPath:  secondPath,
		FirstRange:  res.FirstRange,
		SecondRange: res.SecondRange,
		SkirtKept:   res.SkirtKept,
		Lines:       len(lines),
		Segments:    len(segments),
	}

	if cfg.History.Enabled {
		if err := record(result, splitAt, keepSkirt, cfg); err != nil {
			// The split itself succeeded; a broken history DB should not
			// fail the run.
			log.Printf("warning: could not record history: %v", err)
		}
	}

	return result, nil
}

func record(r *Result, splitAt int, keepSkirt bool, cfg config.Config) error {
	db, err := history.Open(cfg.StateDir())
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Record(history.Entry{
		Input:        r.Input,
		SplitAt:      splitAt,
		KeepSkirt:    keepSkirt,
		FirstPath:    r.FirstPath,
		SecondPath:   r.SecondPath,
		FirstLayers:  RangeString(r.FirstRange),
		SecondLayers: RangeString(r.SecondRange),
		Lines:        r.Lines,
		Segments:     r.Segments,
	})
}

// RangeString renders a layer range for display: "0..3", "5", or "none".
func RangeString(r split.LayerRange) string {
	switch {
	case !r.Valid:
		return "none"
	case r.Min == r.Max:
		return fmt.Sprintf("%d", r.Min)
	default:
		return fmt.Sprintf("%d..%d", r.Min, r.Max)
	}
}
