package split

import (
	"strings"
	"testing"

	"github.com/johns/gsplit/internal/segment"
)

func parse(t *testing.T, lines ...string) []*segment.Segment {
	t.Helper()
	segments, err := segment.Parse(lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return segments
}

func allLines(segments []*segment.Segment) []string {
	var out []string
	for _, s := range segments {
		out = append(out, s.Lines...)
	}
	return out
}

func TestSplit_Example(t *testing.T) {
	// The canonical scenario: three layers, split after layer 0.
	segments := parse(t,
		";LAYER:0",
		"G1 X1 Y1 E5",
		";LAYER:1",
		"G1 X2 Y2 E8",
		";LAYER:2",
		"G1 X3 Y3 E11",
	)

	res := Split(segments, 0, false)

	first := allLines(res.First)
	if first[len(first)-1] != "G1 X1 Y1 E5" {
		t.Errorf("first output ends with %q, want the layer-0 move", first[len(first)-1])
	}

	second := allLines(res.Second)
	// Layer 0 is reduced to its comment; then the continuity pair pins the
	// state it left behind.
	want := []string{
		";LAYER:0",
		"G92 E5",
		"G0 Z0",
		";LAYER:1",
		"G1 X2 Y2 E8",
		";LAYER:2",
		"G1 X3 Y3 E11",
	}
	if strings.Join(second, "\n") != strings.Join(want, "\n") {
		t.Errorf("second output:\n%s\nwant:\n%s",
			strings.Join(second, "\n"), strings.Join(want, "\n"))
	}

	// The layer-1 segment still starts where layer 0 ended.
	var layer1 *segment.Segment
	for _, s := range res.Second {
		if s.Layer.Is(1) {
			layer1 = s
		}
	}
	if layer1 == nil {
		t.Fatal("layer 1 missing from second output")
	}
	if layer1.StartE != 5 {
		t.Errorf("layer 1 StartE = %v, want 5", layer1.StartE)
	}
}

func TestSplit_ContinuityOnlyAtGap(t *testing.T) {
	segments := parse(t,
		";LAYER:0",
		"G1 X1 E5",
		";LAYER:1",
		"G1 X2 E8",
		";LAYER:2",
		"G1 X3 E11",
	)

	res := Split(segments, 0, false)

	pins := 0
	for _, line := range allLines(res.Second) {
		if strings.HasPrefix(line, "G92 E") {
			pins++
		}
	}
	// Consecutive kept segments already agree on state; only the boundary
	// needs a pin.
	if pins != 1 {
		t.Errorf("got %d G92 pins in second output, want 1", pins)
	}
}

func TestSplit_UnsetLayerSharedByBoth(t *testing.T) {
	segments := parse(t,
		"M104 S200",
		"G28",
		";LAYER:0",
		"G1 X1 E5",
		";LAYER:1",
		"G1 X2 E8",
		"M140 S0",
		"M84",
	)

	res := Split(segments, 0, false)

	for _, side := range [][]*segment.Segment{res.First, res.Second} {
		lines := allLines(side)
		joined := strings.Join(lines, "\n")
		for _, shared := range []string{"M104 S200", "G28", "M140 S0", "M84"} {
			if !strings.Contains(joined, shared) {
				t.Errorf("shared line %q missing from output:\n%s", shared, joined)
			}
		}
	}
}

func TestSplit_ControlLinesSurviveOnSecond(t *testing.T) {
	segments := parse(t,
		";LAYER:0",
		"M106 S255",
		"G1 X1 E5",
		";LAYER:1",
		"G1 X2 E8",
	)

	res := Split(segments, 0, false)
	second := strings.Join(allLines(res.Second), "\n")

	if !strings.Contains(second, "M106 S255") {
		t.Error("fan control from the dropped layer should survive on the second output")
	}
	if strings.Contains(second, "G1 X1 E5") {
		t.Error("layer-0 motion should be dropped from the second output")
	}
}

func TestSplit_KeepSkirt(t *testing.T) {
	segments := parse(t,
		";LAYER:0",
		";TYPE:SKIRT",
		"G1 X1 E1",
		";TYPE:WALL-OUTER",
		"G1 X2 E5",
		";LAYER:1",
		"G1 X3 E8",
	)

	res := Split(segments, 0, true)
	if !res.SkirtKept {
		t.Error("SkirtKept should be set")
	}

	second := strings.Join(allLines(res.Second), "\n")
	if !strings.Contains(second, "G1 X1 E1") {
		t.Error("skirt motion should be duplicated into the second output")
	}
	if strings.Contains(second, "G1 X2 E5") {
		t.Error("wall motion below the split must not leak into the second output")
	}

	// Without the flag the skirt moves like any other layer-0 segment.
	res = Split(segments, 0, false)
	if res.SkirtKept {
		t.Error("SkirtKept should be false without the flag")
	}
	second = strings.Join(allLines(res.Second), "\n")
	if strings.Contains(second, "G1 X1 E1") {
		t.Error("skirt motion should be dropped without --keep-skirt")
	}
}

func TestSplit_Degenerate(t *testing.T) {
	segments := parse(t,
		"G28",
		";LAYER:0",
		"G1 X1 E5",
	)

	res := Split(segments, 5, false)
	if res.SecondRange.Valid {
		t.Errorf("second range = %v, want none", res.SecondRange)
	}
	second := strings.Join(allLines(res.Second), "\n")
	if strings.Contains(second, "G1 X1 E5") {
		t.Error("second output should hold no printed motion")
	}
	if !strings.Contains(second, "G28") {
		t.Error("second output should keep shared sequences")
	}
}

func TestSplit_Ranges(t *testing.T) {
	segments := parse(t,
		";LAYER:0",
		"G1 X1 E1",
		";LAYER:1",
		"G1 X2 E2",
		";LAYER:2",
		"G1 X3 E3",
		";LAYER:3",
		"G1 X4 E4",
	)

	res := Split(segments, 1, false)
	if res.FirstRange != (LayerRange{Min: 0, Max: 1, Valid: true}) {
		t.Errorf("first range = %+v, want 0..1", res.FirstRange)
	}
	if res.SecondRange != (LayerRange{Min: 2, Max: 3, Valid: true}) {
		t.Errorf("second range = %+v, want 2..3", res.SecondRange)
	}
}

func TestSplit_DoesNotMutateInput(t *testing.T) {
	segments := parse(t,
		";LAYER:0",
		"G1 X1 E5",
		";LAYER:1",
		"G1 X2 E8",
	)
	before := strings.Join(allLines(segments), "\n")

	Split(segments, 0, false)

	after := strings.Join(allLines(segments), "\n")
	if before != after {
		t.Error("Split mutated the input segments")
	}
}

func TestSerialize(t *testing.T) {
	input := ";LAYER:0\nG1 X1 E5\n;LAYER:1\nG1 X2 E8"
	segments := parse(t, strings.Split(input, "\n")...)

	if got := Serialize(segments); got != input {
		t.Errorf("Serialize = %q, want %q", got, input)
	}
}

func TestSerialize_Empty(t *testing.T) {
	if got := Serialize(nil); got != "" {
		t.Errorf("Serialize(nil) = %q, want empty", got)
	}
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{5, "5"},
		{5.5, "5.5"},
		{0, "0"},
		{-1.25, "-1.25"},
	}
	for _, tt := range tests {
		if got := formatCoord(tt.v); got != tt.want {
			t.Errorf("formatCoord(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
