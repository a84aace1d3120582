package mastcam

import (
	"fmt"
	"io"
	"math"
	"os"
)

// ReadRawFrame reads the Bayer-mosaic pixel array from a binary IMG
// file. The array is rows x cols bytes of 8-bit samples in row-major
// order starting at offset, with no header inside that span.
//
// The read is strict: fewer available bytes than the geometry implies
// is a ShortReadError, never a truncated or padded frame. The geometry
// is validated before anything is allocated, so a corrupt label with
// absurd axis counts yields an error, not a panic or an exabyte
// allocation attempt.
func ReadRawFrame(path string, offset int64, rows, cols int) (*RawFrame, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid frame geometry %dx%d", cols, rows)
	}
	if int64(rows) > int64(math.MaxInt)/int64(cols) {
		return nil, fmt.Errorf("invalid frame geometry %dx%d: pixel count overflows", cols, rows)
	}
	expected := rows * cols

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening raw file: %w", err)
	}
	defer f.Close()

	// Check the geometry against the file size up front: the frame is
	// either fully present or the image is rejected.
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	avail := info.Size() - offset
	if avail < 0 {
		avail = 0
	}
	if int64(expected) > avail {
		return nil, &ShortReadError{Path: path, Offset: offset, Expected: expected, Actual: int(avail)}
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to offset %d in %s: %w", offset, path, err)
	}

	pix := make([]uint8, expected)
	n, err := io.ReadFull(f, pix)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return nil, &ShortReadError{Path: path, Offset: offset, Expected: expected, Actual: n}
	}
	if err != nil {
		return nil, fmt.Errorf("reading pixel data from %s: %w", path, err)
	}

	return &RawFrame{Rows: rows, Cols: cols, Pix: pix}, nil
}
