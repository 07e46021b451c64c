package stats

import (
	"fmt"
	"strings"
)

// Format renders a Summary as aligned terminal output.
func Format(s Summary, path string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "gsplit info %s\n", path)

	b.WriteString("\nFile\n")
	fmt.Fprintf(&b, "  %-16s %d\n", "lines", s.Lines)
	fmt.Fprintf(&b, "  %-16s %d\n", "segments", s.Segments)
	fmt.Fprintf(&b, "  %-16s %d\n", "moves", s.Moves)
	fmt.Fprintf(&b, "  %-16s %d\n", "control lines", s.ControlLines)

	b.WriteString("\nPrint\n")
	if s.Layers == 0 {
		b.WriteString("  no printed layers found\n")
	} else {
		fmt.Fprintf(&b, "  %-16s %d (%d..%d)\n", "layers", s.Layers, s.MinLayer, s.MaxLayer)
	}
	fmt.Fprintf(&b, "  %-16s %.2f mm\n", "max height", s.MaxZ)
	fmt.Fprintf(&b, "  %-16s %.1f mm\n", "filament", s.FilamentMM)

	if len(s.Meshes) > 0 {
		fmt.Fprintf(&b, "  %-16s %s\n", "meshes", strings.Join(s.Meshes, ", "))
	}

	if len(s.Types) > 0 {
		b.WriteString("\nFeature Types\n")
		for _, t := range s.Types {
			fmt.Fprintf(&b, "  %-16s %4d segments %6d lines\n", t.Name, t.Segments, t.Lines)
		}
	}

	return b.String()
}
