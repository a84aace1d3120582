package mastcam

import "sort"

// The color pipeline: three sequential in-place stages over an
// RGBImage. Each stage works on float64 values and clamps back to
// [0, 255] before returning, so overflow never propagates into the
// next stage. The order WhiteBalance -> ColorCorrect -> StretchContrast
// is fixed; later stages assume the range produced by earlier ones.

// Color correction coefficients compensating the blue cast typical of
// raw Mastcam EDR data. Instrument-tuned constants, not derived from
// the image.
const (
	redGain   = 1.10
	greenGain = 1.00
	blueGain  = 0.85
)

// Contrast stretch percentiles, robust to a small number of outlier
// extreme pixels.
const (
	stretchLowPct  = 0.5
	stretchHighPct = 99.5
)

// WhiteBalance applies gray-world white balance: the red and blue
// channels are rescaled so their means match the green mean; green is
// unchanged. Channels with a zero mean are left alone.
func WhiteBalance(img *RGBImage) {
	n := img.Rows * img.Cols
	if n == 0 {
		return
	}

	var sumR, sumG, sumB float64
	for i := 0; i < n; i++ {
		sumR += float64(img.Pix[i*3])
		sumG += float64(img.Pix[i*3+1])
		sumB += float64(img.Pix[i*3+2])
	}
	meanR := sumR / float64(n)
	meanG := sumG / float64(n)
	meanB := sumB / float64(n)

	scaleR, scaleB := 1.0, 1.0
	if meanR > 0 {
		scaleR = meanG / meanR
	}
	if meanB > 0 {
		scaleB = meanG / meanB
	}

	for i := 0; i < n; i++ {
		img.Pix[i*3] = clampByte(float64(img.Pix[i*3]) * scaleR)
		img.Pix[i*3+2] = clampByte(float64(img.Pix[i*3+2]) * scaleB)
	}
}

// ColorCorrect applies the fixed per-channel gains.
func ColorCorrect(img *RGBImage) {
	n := img.Rows * img.Cols
	for i := 0; i < n; i++ {
		img.Pix[i*3] = clampByte(float64(img.Pix[i*3]) * redGain)
		img.Pix[i*3+1] = clampByte(float64(img.Pix[i*3+1]) * greenGain)
		img.Pix[i*3+2] = clampByte(float64(img.Pix[i*3+2]) * blueGain)
	}
}

// StretchContrast linearly remaps intensities so the 0.5th percentile
// maps to 0 and the 99.5th to 255, with all channels pooled for the
// percentile computation. When the two percentiles coincide (flat
// image) the image is returned unchanged.
func StretchContrast(img *RGBImage) {
	if len(img.Pix) == 0 {
		return
	}

	lo := percentile(img.Pix, stretchLowPct)
	hi := percentile(img.Pix, stretchHighPct)
	if hi <= lo {
		return
	}

	scale := 255.0 / (hi - lo)
	for i, v := range img.Pix {
		img.Pix[i] = clampByte((float64(v) - lo) * scale)
	}
}

// percentile computes the p-th percentile (0..100) over all samples
// with linear interpolation between the two nearest ranks.
func percentile(pix []uint8, p float64) float64 {
	sorted := make([]float64, len(pix))
	for i, v := range pix {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(rank)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
