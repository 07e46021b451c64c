// Package split partitions a segmented G-code stream into two
// independently printable halves at a layer boundary.
package split

import (
	"strconv"
	"strings"

	"github.com/johns/gsplit/internal/segment"
)

// SkirtType is the feature tag slicers put on the sacrificial priming
// outline.
const SkirtType = "SKIRT"

// LayerRange is the span of printed layers present in one output.
type LayerRange struct {
	Min, Max int
	Valid    bool // false when the output holds no printed layers
}

func (r LayerRange) extend(n int) LayerRange {
	if !r.Valid {
		return LayerRange{Min: n, Max: n, Valid: true}
	}
	if n < r.Min {
		r.Min = n
	}
	if n > r.Max {
		r.Max = n
	}
	return r
}

// Result holds the two output segment sequences and what ended up in them.
type Result struct {
	First  []*segment.Segment // layers <= split layer, plus shared sequences
	Second []*segment.Segment // layers > split layer, plus shared sequences

	FirstRange  LayerRange
	SecondRange LayerRange

	// SkirtKept reports whether skirt segments were duplicated into both
	// outputs.
	SkirtKept bool
}

// Split partitions segments at splitLayer: the first output keeps layers
// 0..splitLayer, the second everything above. Segments outside the printed
// layers (start/end machine sequences) go to both outputs unchanged, as do
// skirt segments when keepSkirt is set. A segment whose motion is dropped
// from the second output is reduced to its control lines so temperature,
// fan and homing side effects still happen; the first segment after such a
// gap gets synthetic continuity lines pinning extruder position and height.
//
// Asking for a split at or past the last printed layer is not an error; the
// second output then holds only shared and skirt segments.
func Split(segments []*segment.Segment, splitLayer int, keepSkirt bool) Result {
	var res Result

	// True while the second output is missing the motion that produced the
	// current machine state, i.e. the previous segment was reduced to its
	// control lines.
	secondStale := false
	var prev *segment.Segment

	for _, seg := range segments {
		switch {
		case !seg.Layer.Valid:
			res.First = append(res.First, seg.Copy())
			res.Second = append(res.Second, seg.Copy())
			secondStale = false

		case keepSkirt && seg.Type == SkirtType:
			res.First = append(res.First, seg.Copy())
			res.Second = append(res.Second, seg.Copy())
			res.SkirtKept = true
			res.FirstRange = res.FirstRange.extend(seg.Layer.N)
			res.SecondRange = res.SecondRange.extend(seg.Layer.N)
			secondStale = false

		case seg.Layer.AtMost(splitLayer):
			res.First = append(res.First, seg.Copy())
			res.Second = append(res.Second, seg.WithLines(seg.ControlLines()))
			res.FirstRange = res.FirstRange.extend(seg.Layer.N)
			secondStale = true

		default: // layer > splitLayer
			cp := seg.Copy()
			if secondStale && prev != nil {
				cp.Lines = append(continuityLines(prev), cp.Lines...)
			}
			res.Second = append(res.Second, cp)
			res.SecondRange = res.SecondRange.extend(seg.Layer.N)
			secondStale = false
		}
		prev = seg
	}
	return res
}

// continuityLines pins the machine state left behind by a segment whose
// motion was dropped: an explicit position set for the extruder and a
// non-extruding move restoring the nozzle height. Without these the second
// print would under- or over-extrude and move at the wrong height.
func continuityLines(prev *segment.Segment) []string {
	return []string{
		"G92 E" + formatCoord(prev.LastE()),
		"G0 Z" + formatCoord(prev.LastZ()),
	}
}

// formatCoord renders a coordinate the way slicers do: shortest decimal
// form, no exponent, no trailing zeros.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Serialize flattens a segment sequence back into file text: every
// segment's lines in order, newline-joined, no final newline appended.
func Serialize(segments []*segment.Segment) string {
	var b strings.Builder
	first := true
	for _, seg := range segments {
		for _, line := range seg.Lines {
			if !first {
				b.WriteByte('\n')
			}
			b.WriteString(line)
			first = false
		}
	}
	return b.String()
}
