package mastcam

import (
	"fmt"
	"strings"
)

// BayerPattern names the color filter arrangement of the sensor, read
// from the top-left 2x2 cell of the array. This is the convention used
// by PDS labels, MATLAB and camera vendor documentation.
type BayerPattern string

const (
	PatternRGGB BayerPattern = "RGGB"
	PatternGRBG BayerPattern = "GRBG"
	PatternGBRG BayerPattern = "GBRG"
	PatternBGGR BayerPattern = "BGGR"
)

// DefaultPattern is the Mastcam instrument default. The Kodak KAI-2020
// CCD carries a GR/BG unit cell (Bell et al. 2017); the pattern is a
// sensor property and is never stored in per-image labels.
const DefaultPattern = PatternGRBG

// ParseBayerPattern normalizes a pattern token. The second return value
// is false for unrecognized tokens; callers are expected to fall back
// to DefaultPattern rather than fail.
func ParseBayerPattern(s string) (BayerPattern, bool) {
	switch BayerPattern(strings.ToUpper(strings.TrimSpace(s))) {
	case PatternRGGB:
		return PatternRGGB, true
	case PatternGRBG:
		return PatternGRBG, true
	case PatternGBRG:
		return PatternGBRG, true
	case PatternBGGR:
		return PatternBGGR, true
	}
	return DefaultPattern, false
}

// cfaOffset returns the (column, row) shift of the pattern's 2x2 cell
// relative to an RGGB base cell:
//
//	R G R G
//	G B G B
//	R G R G
//
// Shifting the read origin by one column and/or one row inside that
// tiling produces the other three canonical patterns. The four tokens
// map to four distinct offset pairs.
func (p BayerPattern) cfaOffset() (x, y int) {
	switch p {
	case PatternRGGB:
		return 0, 0
	case PatternGRBG:
		return 1, 0
	case PatternGBRG:
		return 0, 1
	case PatternBGGR:
		return 1, 1
	}
	return PatternGRBG.cfaOffset()
}

// ImageMetadata is the geometry extracted from one PDS4 label. It is
// built once per label and read-only afterwards.
type ImageMetadata struct {
	// SourceFile is the data file referenced by the label, relative to
	// the label's directory.
	SourceFile string
	// ByteOffset is where the pixel array starts inside SourceFile.
	ByteOffset int64
	Rows       int // Axis_Array "Line" element count
	Cols       int // Axis_Array "Sample" element count
	// BitDepth is fixed at 8 for Mastcam EDR products.
	BitDepth int
	// Pattern is the instrument-fixed Bayer pattern, overridable by the
	// caller. Not parsed from the label.
	Pattern BayerPattern
	// LookupTable is a decompanding table slot. EDR products ship
	// without one, so it is always nil today; it exists so a future
	// 11-to-8-bit companded product can carry its inverse LUT.
	LookupTable []uint8
}

// RawFrame is a single-channel rows x cols grid of 8-bit samples in
// row-major order, exactly Rows*Cols bytes with no padding.
type RawFrame struct {
	Rows int
	Cols int
	Pix  []uint8
}

// At returns the sample at (row y, column x).
func (f *RawFrame) At(x, y int) uint8 {
	return f.Pix[y*f.Cols+x]
}

// RGBImage is a 3-channel 8-bit image, RGB interleaved, row-major.
// Produced by demosaicing and transformed in place by the color
// pipeline stages.
type RGBImage struct {
	Rows int
	Cols int
	Pix  []uint8 // len == Rows*Cols*3
}

// NewRGBImage allocates a zeroed rows x cols RGB image.
func NewRGBImage(rows, cols int) *RGBImage {
	return &RGBImage{Rows: rows, Cols: cols, Pix: make([]uint8, rows*cols*3)}
}

// At returns the (R, G, B) triple at (row y, column x).
func (m *RGBImage) At(x, y int) (r, g, b uint8) {
	i := (y*m.Cols + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// Set stores the (R, G, B) triple at (row y, column x).
func (m *RGBImage) Set(x, y int, r, g, b uint8) {
	i := (y*m.Cols + x) * 3
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// MissingFieldError reports a label whose structure is incomplete: the
// image array element or one of its required fields could not be found
// under any lookup strategy.
type MissingFieldError struct {
	Field string
	Label string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("label %s: missing required field %q", e.Label, e.Field)
}

// MalformedValueError reports a label field that is present but not
// parseable as a non-negative integer.
type MalformedValueError struct {
	Field string
	Value string
	Label string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("label %s: field %q has malformed value %q", e.Label, e.Field, e.Value)
}

// ShortReadError reports a raw data file shorter than the label
// geometry implies.
type ShortReadError struct {
	Path     string
	Offset   int64
	Expected int
	Actual   int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("expected %d bytes but read %d from %s at offset %d",
		e.Expected, e.Actual, e.Path, e.Offset)
}
