package mastcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channelMeans(img *RGBImage) (r, g, b float64) {
	n := img.Rows * img.Cols
	for i := 0; i < n; i++ {
		r += float64(img.Pix[i*3])
		g += float64(img.Pix[i*3+1])
		b += float64(img.Pix[i*3+2])
	}
	return r / float64(n), g / float64(n), b / float64(n)
}

func fillRGB(rows, cols int, r, g, b uint8) *RGBImage {
	img := NewRGBImage(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.Set(x, y, r, g, b)
		}
	}
	return img
}

func TestWhiteBalanceEqualizesMeans(t *testing.T) {
	img := fillRGB(4, 4, 200, 100, 50)
	WhiteBalance(img)

	meanR, meanG, meanB := channelMeans(img)
	assert.InDelta(t, meanG, meanR, 1e-3)
	assert.InDelta(t, meanG, meanB, 1e-3)
	assert.InDelta(t, 100, meanG, 1e-3, "green is the reference channel")
}

func TestWhiteBalanceSkipsZeroChannels(t *testing.T) {
	img := fillRGB(2, 2, 0, 100, 80)
	WhiteBalance(img)

	meanR, meanG, meanB := channelMeans(img)
	assert.Equal(t, 0.0, meanR, "zero red mean must not be rescaled")
	assert.InDelta(t, meanG, meanB, 1e-3)
}

func TestWhiteBalanceGreenUntouched(t *testing.T) {
	img := fillRGB(3, 3, 80, 123, 210)
	WhiteBalance(img)
	_, g, _ := img.At(1, 1)
	assert.Equal(t, uint8(123), g)
}

func TestColorCorrectSinglePixel(t *testing.T) {
	img := fillRGB(1, 1, 100, 100, 100)
	ColorCorrect(img)

	r, g, b := img.At(0, 0)
	assert.Equal(t, uint8(110), r) // 100 * 1.10
	assert.Equal(t, uint8(100), g) // 100 * 1.00
	assert.Equal(t, uint8(85), b)  // 100 * 0.85
}

func TestColorCorrectClamps(t *testing.T) {
	img := fillRGB(1, 1, 250, 255, 255)
	ColorCorrect(img)

	r, _, _ := img.At(0, 0)
	assert.Equal(t, uint8(255), r, "250 * 1.10 clamps to 255")
}

func TestStretchContrastFlatImage(t *testing.T) {
	img := fillRGB(4, 4, 77, 77, 77)
	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)

	StretchContrast(img)
	assert.Equal(t, before, img.Pix, "degenerate percentiles leave the image unchanged")
}

func TestStretchContrastFullRangeNearIdentity(t *testing.T) {
	// Half the samples at 0, half at 255: the 0.5/99.5 percentiles are
	// already the range extremes, so the stretch is a near-identity.
	img := NewRGBImage(16, 16)
	for i := range img.Pix {
		if i%2 == 0 {
			img.Pix[i] = 255
		}
	}
	before := make([]uint8, len(img.Pix))
	copy(before, img.Pix)

	StretchContrast(img)
	for i := range img.Pix {
		assert.InDelta(t, float64(before[i]), float64(img.Pix[i]), 1)
	}
}

func TestStretchContrastExpandsRange(t *testing.T) {
	// A narrow band around mid-gray must expand toward the extremes.
	img := NewRGBImage(8, 8)
	for i := range img.Pix {
		img.Pix[i] = uint8(100 + i%21) // 100..120
	}
	StretchContrast(img)

	var lo, hi uint8 = 255, 0
	for _, v := range img.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	assert.Less(t, int(lo), 10)
	assert.Greater(t, int(hi), 245)
}

func TestPercentile(t *testing.T) {
	pix := make([]uint8, 100)
	for i := range pix {
		pix[i] = uint8(i)
	}
	require.InDelta(t, 0.495, percentile(pix, 0.5), 1e-9)
	require.InDelta(t, 98.505, percentile(pix, 99.5), 1e-9)
	require.InDelta(t, 99, percentile(pix, 100), 1e-9)
}

func TestPipelineStageOrderIsStable(t *testing.T) {
	// Applying the three stages in the documented order on a flat-ish
	// image must terminate with a valid 8-bit buffer every time.
	img := fillRGB(4, 4, 180, 120, 140)
	WhiteBalance(img)
	ColorCorrect(img)
	StretchContrast(img)
	assert.Len(t, img.Pix, 4*4*3)
}
