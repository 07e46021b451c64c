// Package gcode classifies raw G-code lines and extracts their arguments.
package gcode

import (
	"strconv"
	"strings"
)

// Category is the coarse classification of a single G-code line.
type Category int

const (
	// Blank is an empty or whitespace-only line.
	Blank Category = iota
	// Meta is a comment line (first token starts with ";").
	Meta
	// Movement covers linear and arc moves (G0/G1/G2/G3).
	Movement
	// StateMarker covers positioning-mode switches (G90/G91/M82/M83).
	StateMarker
	// Control covers temperature, fan, homing, motor-disable and
	// explicit-position-set instructions.
	Control
	// Unrecognized is any other opcode. Encountering one during
	// segmentation is fatal.
	Unrecognized
)

func (c Category) String() string {
	switch c {
	case Blank:
		return "blank"
	case Meta:
		return "meta"
	case Movement:
		return "movement"
	case StateMarker:
		return "state-marker"
	case Control:
		return "control"
	default:
		return "unrecognized"
	}
}

// CommentMarker starts a comment line or a trailing comment.
const CommentMarker = ";"

var movementOpcodes = map[string]bool{
	"G0": true, "G1": true, "G2": true, "G3": true,
}

var stateMarkerOpcodes = map[string]bool{
	"G90": true, "G91": true, "M82": true, "M83": true,
}

var controlOpcodes = map[string]bool{
	"M104": true, // set extruder temperature
	"M109": true, // wait extruder temperature
	"M140": true, // set bed temperature
	"M190": true, // wait bed temperature
	"M106": true, // fan on
	"M107": true, // fan off
	"G28":  true, // home
	"M84":  true, // disable motors
	"M18":  true, // disable motors (alias)
	"G92":  true, // set position
}

// Opcode returns the first whitespace-delimited token of a line, or "" for a
// blank line. Comment lines report the bare comment marker regardless of the
// comment text.
func Opcode(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	if strings.HasPrefix(fields[0], CommentMarker) {
		return CommentMarker
	}
	return fields[0]
}

// Classify determines the category of one raw line. Pure function of the
// line text.
func Classify(line string) Category {
	op := Opcode(line)
	switch {
	case op == "":
		return Blank
	case op == CommentMarker:
		return Meta
	case movementOpcodes[op]:
		return Movement
	case stateMarkerOpcodes[op]:
		return StateMarker
	case controlOpcodes[op]:
		return Control
	default:
		return Unrecognized
	}
}

// IsLinearMove reports whether a line is a G0/G1 move. Only linear moves
// carry position state for the resolver; arcs are passed through untouched.
func IsLinearMove(line string) bool {
	op := Opcode(line)
	return op == "G0" || op == "G1"
}

// Args returns the whitespace-delimited tokens after the opcode.
func Args(line string) []string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

// AxisValue extracts the numeric value of the first argument starting with
// the given axis letter, e.g. AxisValue("G1 X1 E5.2", "E") == 5.2. The
// second return is false when the line has no such argument or its value
// does not parse.
func AxisValue(line, axis string) (float64, bool) {
	for _, arg := range Args(line) {
		if !strings.HasPrefix(arg, axis) {
			continue
		}
		v, err := strconv.ParseFloat(arg[len(axis):], 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
