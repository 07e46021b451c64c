package segment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/johns/gsplit/internal/gcode"
)

var (
	layerPattern = regexp.MustCompile(`^;LAYER:(\d+)$`)
	typePattern  = regexp.MustCompile(`^;TYPE:(\w+)$`)
	meshPattern  = regexp.MustCompile(`^;MESH:(\S+)$`)
)

// shutdownPrefix marks the start of the end-of-print sequence. Matched as a
// prefix so a trailing comment is tolerated; a reordered argument list is
// not recognized.
const shutdownPrefix = "M140 S0"

// ParseError reports a line the segmenter refused to pass through. Unknown
// motion silently dropped from a split output could corrupt the physical
// print, so parsing aborts instead.
type ParseError struct {
	Line int    // 1-based line number
	Text string // raw line text
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: unrecognized instruction %q", e.Line, e.Text)
}

// parserState is the running state of the segmentation pass. It is threaded
// explicitly through the per-line step so the transition table is testable
// without line iteration.
type parserState struct {
	layer               Layer
	segType             string
	mesh                string
	positioning         Positioning
	extruderPositioning Positioning
}

// transition inspects one line and updates the state. It reports whether
// the line opens a new segment.
func (st *parserState) transition(line string) bool {
	if m := layerPattern.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		st.layer = At(n)
		st.segType = "" // type resets at each layer change
		return true
	}
	if m := typePattern.FindStringSubmatch(line); m != nil {
		st.segType = m[1]
		return true
	}
	if m := meshPattern.FindStringSubmatch(line); m != nil {
		st.mesh = m[1]
		st.segType = ""
		return true
	}
	switch gcode.Opcode(line) {
	case "M82":
		st.extruderPositioning = Absolute
		return true
	case "M83":
		st.extruderPositioning = Relative
		return true
	case "G90":
		st.positioning = Absolute
		st.extruderPositioning = PositioningUnset
		return true
	case "G91":
		st.positioning = Relative
		st.extruderPositioning = PositioningUnset
		return true
	}
	if strings.HasPrefix(line, shutdownPrefix) {
		st.layer = UnsetLayer
		return true
	}
	return false
}

// open creates an empty segment carrying the current state, starting where
// the previous segment ended.
func (st *parserState) open(prev *Segment) *Segment {
	return &Segment{
		Layer:               st.layer,
		Type:                st.segType,
		Mesh:                st.mesh,
		Positioning:         st.positioning,
		ExtruderPositioning: st.extruderPositioning,
		StartE:              prev.LastE(),
		StartZ:              prev.LastZ(),
	}
}

// Parse segments a full G-code line stream. Concatenating the returned
// segments' lines in order reproduces the input exactly. A state-changing
// marker line becomes the first line of the segment it opens.
func Parse(lines []string) ([]*Segment, error) {
	var st parserState
	segments := []*Segment{{}}

	for i, line := range lines {
		if st.transition(line) {
			segments = append(segments, st.open(segments[len(segments)-1]))
		} else if gcode.Classify(line) == gcode.Unrecognized {
			return nil, &ParseError{Line: i + 1, Text: line}
		}
		cur := segments[len(segments)-1]
		cur.Lines = append(cur.Lines, line)
	}
	return segments, nil
}

// SplitLines breaks raw file text into lines the way Parse expects,
// discarding the line terminators.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
