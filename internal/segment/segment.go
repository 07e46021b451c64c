// Package segment turns a flat G-code line stream into position-aware runs
// of instructions and resolves extruder/height state across them.
package segment

import (
	"fmt"

	"github.com/johns/gsplit/internal/gcode"
)

// Positioning is a coordinate interpretation mode.
type Positioning int

const (
	// PositioningUnset means no mode has been seen yet; movement arguments
	// default to absolute.
	PositioningUnset Positioning = iota
	// Absolute coordinates (G90/M82).
	Absolute
	// Relative offsets from the current position (G91/M83).
	Relative
)

func (p Positioning) String() string {
	switch p {
	case Absolute:
		return "abs"
	case Relative:
		return "rel"
	default:
		return "unset"
	}
}

// Layer is a layer index that may be unset. Unset layers mark start/end
// machine sequences outside the printed object.
type Layer struct {
	N     int
	Valid bool
}

// UnsetLayer is the zero Layer, outside the printed layers.
var UnsetLayer = Layer{}

// At returns the layer with index n.
func At(n int) Layer { return Layer{N: n, Valid: true} }

func (l Layer) String() string {
	if !l.Valid {
		return "unset"
	}
	return fmt.Sprintf("%d", l.N)
}

// Is reports whether the layer is set and has index n.
func (l Layer) Is(n int) bool { return l.Valid && l.N == n }

// AtMost reports whether the layer is set and its index is <= n.
func (l Layer) AtMost(n int) bool { return l.Valid && l.N <= n }

// Segment is a maximal run of consecutive lines sharing the same layer,
// feature type, mesh, and positioning-mode state. It is immutable once the
// parser closes it; the split outputs receive copies, never the original.
type Segment struct {
	Layer Layer
	Type  string // feature tag from ;TYPE:, "" = unset
	Mesh  string // object name from ;MESH:, "" = unset

	// StartE and StartZ are the absolute extruder position and height at
	// segment start, regardless of the active positioning mode.
	StartE float64
	StartZ float64

	Positioning         Positioning
	ExtruderPositioning Positioning // overrides Positioning for E when set

	// Lines holds the raw input lines in order, comments and blanks
	// included.
	Lines []string

	lastE *float64
	lastZ *float64
}

// LastE resolves the absolute extruder position after executing this
// segment's movement lines. Memoized; calling it twice yields the same
// value with no side effects beyond filling the cache.
func (s *Segment) LastE() float64 {
	if s.lastE == nil {
		v := s.resolveE()
		s.lastE = &v
	}
	return *s.lastE
}

// LastZ resolves the absolute height after this segment, analogous to LastE.
// Only the general positioning mode applies to Z; the extruder override
// does not.
func (s *Segment) LastZ() float64 {
	if s.lastZ == nil {
		v := s.resolveZ()
		s.lastZ = &v
	}
	return *s.lastZ
}

func (s *Segment) resolveE() float64 {
	for i := len(s.Lines) - 1; i >= 0; i-- {
		line := s.Lines[i]
		if !gcode.IsLinearMove(line) {
			continue
		}
		v, ok := gcode.AxisValue(line, "E")
		if !ok {
			continue
		}
		if s.extruderRelative() {
			return s.StartE + v
		}
		return v
	}
	return s.StartE
}

func (s *Segment) resolveZ() float64 {
	for i := len(s.Lines) - 1; i >= 0; i-- {
		line := s.Lines[i]
		if !gcode.IsLinearMove(line) {
			continue
		}
		v, ok := gcode.AxisValue(line, "Z")
		if !ok {
			continue
		}
		if s.Positioning == Relative {
			return s.StartZ + v
		}
		return v
	}
	return s.StartZ
}

// extruderRelative reports whether E arguments are offsets: either the
// extruder mode is relative, or it is unset and the general mode is
// relative. Both unset defaults to absolute.
func (s *Segment) extruderRelative() bool {
	if s.ExtruderPositioning == Relative {
		return true
	}
	return s.ExtruderPositioning == PositioningUnset && s.Positioning == Relative
}

// ControlLines returns the subset of lines whose side effects must survive
// even when the segment's motion is discarded: temperature, fan, homing and
// position-set instructions, plus comments. Blank lines are dropped.
func (s *Segment) ControlLines() []string {
	var kept []string
	for _, line := range s.Lines {
		switch gcode.Classify(line) {
		case gcode.Control, gcode.Meta:
			kept = append(kept, line)
		}
	}
	return kept
}

// Copy returns an independent copy of the segment. The line slice is
// duplicated so the two split outputs never alias, and the memoized
// positions are recomputed on demand.
func (s *Segment) Copy() *Segment {
	return s.WithLines(s.Lines)
}

// WithLines returns a copy of the segment with its lines replaced. All
// state fields carry over; derived positions are re-resolved against the
// new lines.
func (s *Segment) WithLines(lines []string) *Segment {
	c := &Segment{
		Layer:               s.Layer,
		Type:                s.Type,
		Mesh:                s.Mesh,
		StartE:              s.StartE,
		StartZ:              s.StartZ,
		Positioning:         s.Positioning,
		ExtruderPositioning: s.ExtruderPositioning,
		Lines:               make([]string, len(lines)),
	}
	copy(c.Lines, lines)
	return c
}

func (s *Segment) String() string {
	return fmt.Sprintf("segment{layer=%s type=%q mesh=%q lines=%d}",
		s.Layer, s.Type, s.Mesh, len(s.Lines))
}
