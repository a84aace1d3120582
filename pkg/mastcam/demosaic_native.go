//go:build !purego && !js

package mastcam

import (
	"fmt"

	"gocv.io/x/gocv"
)

// OpenCV names Bayer patterns from the second row / second column of
// the CFA, not from the top-left 2x2 cell like PDS labels, MATLAB and
// camera vendors (see opencv/opencv#19629). The tables below carry
// that one-row/one-column correction; the four canonical tokens map to
// four distinct conversion codes. Do not "simplify" these to the
// matching names.
var bayerToVNG = map[BayerPattern]gocv.ColorConversionCode{
	PatternRGGB: gocv.ColorBayerBGToBGRVNG,
	PatternGRBG: gocv.ColorBayerGBToBGRVNG, // Mastcam default
	PatternGBRG: gocv.ColorBayerGRToBGRVNG,
	PatternBGGR: gocv.ColorBayerRGToBGRVNG,
}

var bayerToBilinear = map[BayerPattern]gocv.ColorConversionCode{
	PatternRGGB: gocv.ColorBayerBGToBGR,
	PatternGRBG: gocv.ColorBayerGBToBGR,
	PatternGBRG: gocv.ColorBayerGRToBGR,
	PatternBGGR: gocv.ColorBayerRGToBGR,
}

// demosaicBackend runs OpenCV's demosaicing over the raw frame and
// repacks the BGR result as interleaved RGB.
func demosaicBackend(f *RawFrame, pattern BayerPattern, method DemosaicMethod) (*RGBImage, error) {
	table := bayerToVNG
	if method == MethodBilinear {
		table = bayerToBilinear
	}
	code, ok := table[pattern]
	if !ok {
		code = table[DefaultPattern]
	}

	src, err := gocv.NewMatFromBytes(f.Rows, f.Cols, gocv.MatTypeCV8UC1, f.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrapping raw frame: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, code)

	bgr, err := dst.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("reading demosaiced pixels: %w", err)
	}

	out := NewRGBImage(f.Rows, f.Cols)
	n := f.Rows * f.Cols
	for i := 0; i < n; i++ {
		out.Pix[i*3] = bgr[i*3+2]
		out.Pix[i*3+1] = bgr[i*3+1]
		out.Pix[i*3+2] = bgr[i*3]
	}
	return out, nil
}
