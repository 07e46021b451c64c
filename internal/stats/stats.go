// Package stats computes per-file summaries of a segmented G-code stream.
package stats

import (
	"sort"

	"github.com/johns/gsplit/internal/gcode"
	"github.com/johns/gsplit/internal/segment"
)

// Summary holds aggregate metrics for one parsed G-code file.
type Summary struct {
	Lines    int
	Segments int

	// Layers is the number of distinct printed layer indices.
	Layers   int
	MinLayer int
	MaxLayer int

	Moves        int // movement instructions
	ControlLines int

	// MaxZ is the highest resolved nozzle height across all segments.
	MaxZ float64

	// FilamentMM is the total filament driven forward, summed as positive
	// per-segment extruder deltas so retractions and G92 resets do not
	// cancel real extrusion.
	FilamentMM float64

	Types  []TypeStats
	Meshes []string
}

// TypeStats holds per-feature-type counts (WALL-OUTER, FILL, SKIRT, ...).
type TypeStats struct {
	Name     string
	Segments int
	Lines    int
}

// Compute builds a Summary from a parsed segment sequence.
func Compute(segments []*segment.Segment) Summary {
	var s Summary
	layers := map[int]bool{}
	types := map[string]*TypeStats{}
	meshes := map[string]bool{}

	for _, seg := range segments {
		s.Segments++
		s.Lines += len(seg.Lines)

		if seg.Layer.Valid {
			layers[seg.Layer.N] = true
		}
		if seg.Mesh != "" {
			meshes[seg.Mesh] = true
		}
		if seg.Type != "" {
			ts := types[seg.Type]
			if ts == nil {
				ts = &TypeStats{Name: seg.Type}
				types[seg.Type] = ts
			}
			ts.Segments++
			ts.Lines += len(seg.Lines)
		}

		for _, line := range seg.Lines {
			switch gcode.Classify(line) {
			case gcode.Movement:
				s.Moves++
			case gcode.Control:
				s.ControlLines++
			}
		}

		if z := seg.LastZ(); z > s.MaxZ {
			s.MaxZ = z
		}
		if d := seg.LastE() - seg.StartE; d > 0 {
			s.FilamentMM += d
		}
	}

	s.Layers = len(layers)
	first := true
	for n := range layers {
		if first || n < s.MinLayer {
			s.MinLayer = n
		}
		if first || n > s.MaxLayer {
			s.MaxLayer = n
		}
		first = false
	}

	for _, ts := range types {
		s.Types = append(s.Types, *ts)
	}
	sort.Slice(s.Types, func(i, j int) bool {
		if s.Types[i].Segments != s.Types[j].Segments {
			return s.Types[i].Segments > s.Types[j].Segments
		}
		return s.Types[i].Name < s.Types[j].Name
	})

	for m := range meshes {
		s.Meshes = append(s.Meshes, m)
	}
	sort.Strings(s.Meshes)

	return s
}
