package mastcam

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRawFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.IMG")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadRawFrame(t *testing.T) {
	// 3 header bytes, then a 2x4 row-major frame.
	data := []byte{0xff, 0xff, 0xff, 0, 1, 2, 3, 4, 5, 6, 7}
	path := writeRawFixture(t, data)

	frame, err := ReadRawFrame(path, 3, 2, 4)
	require.NoError(t, err)

	assert.Equal(t, 2, frame.Rows)
	assert.Equal(t, 4, frame.Cols)
	require.Len(t, frame.Pix, 8)
	assert.Equal(t, uint8(0), frame.At(0, 0))
	assert.Equal(t, uint8(3), frame.At(3, 0))
	assert.Equal(t, uint8(4), frame.At(0, 1))
	assert.Equal(t, uint8(7), frame.At(3, 1))
}

func TestReadRawFrameZeroOffset(t *testing.T) {
	path := writeRawFixture(t, []byte{9, 8, 7, 6})

	frame, err := ReadRawFrame(path, 0, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint8{9, 8, 7, 6}, frame.Pix)
}

func TestReadRawFrameShortFile(t *testing.T) {
	path := writeRawFixture(t, make([]byte, 10))

	_, err := ReadRawFrame(path, 4, 4, 4)
	var short *ShortReadError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 16, short.Expected)
	assert.Equal(t, 6, short.Actual)
	assert.Equal(t, int64(4), short.Offset)
	assert.Equal(t, path, short.Path)
}

func TestReadRawFrameOffsetPastEOF(t *testing.T) {
	path := writeRawFixture(t, make([]byte, 4))

	_, err := ReadRawFrame(path, 100, 2, 2)
	var short *ShortReadError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 4, short.Expected)
	assert.Equal(t, 0, short.Actual)
}

func TestReadRawFrameMissingFile(t *testing.T) {
	_, err := ReadRawFrame(filepath.Join(t.TempDir(), "nope.IMG"), 0, 2, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadRawFrameBadGeometry(t *testing.T) {
	path := writeRawFixture(t, make([]byte, 4))

	_, err := ReadRawFrame(path, 0, 0, 4)
	assert.Error(t, err)
	_, err = ReadRawFrame(path, 0, 4, -1)
	assert.Error(t, err)
}

func TestReadRawFrameGeometryOverflow(t *testing.T) {
	// rows*cols wraps past the int range; a corrupt label must produce
	// an error here, never a panic or a giant allocation.
	path := writeRawFixture(t, make([]byte, 4))

	rows, cols := math.MaxInt/2, 3
	frame, err := ReadRawFrame(path, 0, rows, cols)
	assert.Nil(t, frame)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows")
}

func TestReadRawFrameHugeGeometryShortFile(t *testing.T) {
	// A gigabyte-scale frame against a 4-byte file is caught by the
	// size check before the pixel buffer is allocated.
	path := writeRawFixture(t, make([]byte, 4))

	rows, cols := 1<<15, 1<<15
	_, err := ReadRawFrame(path, 0, rows, cols)
	var short *ShortReadError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, rows*cols, short.Expected)
	assert.Equal(t, 4, short.Actual)
}
