// Package output derives split-file names and reads/writes G-code files
// with transparent gzip/zstd compression.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/johns/gsplit/internal/split"
)

// Ext is the uncompressed G-code file extension.
const Ext = ".gcode"

// Suffix encodes a layer range the way the output files are named:
// "_layer_3" for a single layer, "_layers_1_to_7" for a span, and
// "_layers_none" for a degenerate output holding no printed layers.
func Suffix(r split.LayerRange, withSkirt bool) string {
	var s string
	switch {
	case !r.Valid:
		s = "_layers_none"
	case r.Min == r.Max:
		s = fmt.Sprintf("_layer_%d", r.Min)
	default:
		s = fmt.Sprintf("_layers_%d_to_%d", r.Min, r.Max)
	}
	if withSkirt {
		s += "_with_skirt"
	}
	return s
}

// DerivePath builds an output path from the input path and a name suffix.
// The suffix lands before the .gcode extension; compress ("gzip", "zstd" or
// anything else for plain) appends the matching extension. A non-empty
// outputDir redirects the file there.
func DerivePath(inputPath, suffix, outputDir, compress string) string {
	dir := filepath.Dir(inputPath)
	if outputDir != "" {
		dir = outputDir
	}
	stem := Stem(inputPath)

	name := stem + suffix + Ext
	switch compress {
	case "gzip":
		name += ".gz"
	case "zstd":
		name += ".zst"
	}
	return filepath.Join(dir, name)
}

// Stem strips the G-code and compression extensions from a path's base
// name: "benchy.gcode.gz" -> "benchy".
func Stem(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".zst", Ext} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// ReadFile reads a G-code file, decompressing .gz and .zst inputs by
// extension.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("create zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr.IOReadCloser()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// WriteFile writes G-code text, compressing when the path carries a .gz or
// .zst extension.
func WriteFile(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	var w io.WriteCloser
	switch {
	case strings.HasSuffix(path, ".gz"):
		w = gzip.NewWriter(f)
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		w = zw
	default:
		if _, err := f.WriteString(text); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if _, err := io.WriteString(w, text); err != nil {
		w.Close()
		return fmt.Errorf("compress output: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return nil
}

// IsSplitOutput reports whether a filename already looks like one of our
// outputs, so watch mode does not re-split its own results.
func IsSplitOutput(path string) bool {
	stem := Stem(path)
	return strings.Contains(stem, "_layer_") || strings.Contains(stem, "_layers_")
}
