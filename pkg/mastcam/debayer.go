package mastcam

// Demosaicing of the Bayer mosaic into a full RGB image. Two
// interpolation methods are implemented in pure Go here; the native
// OpenCV backend in demosaic_native.go is used instead when the module
// is built without the purego tag.

// DemosaicMethod selects the interpolation algorithm.
type DemosaicMethod int

const (
	// MethodVNG is variable-number-of-gradients interpolation:
	// edge-aware, fewer color fringes, higher cost. The default.
	MethodVNG DemosaicMethod = iota
	// MethodBilinear averages the nearest same-color neighbors. Fast,
	// but leaves visible grid artifacts on sharp edges.
	MethodBilinear
)

func (m DemosaicMethod) String() string {
	if m == MethodBilinear {
		return "bilinear"
	}
	return "vng"
}

// CFA colors.
const (
	chanR = 0
	chanG = 1
	chanB = 2
)

// cfaColorAt returns the CFA channel at (x, y) for a pattern whose 2x2
// cell is shifted by (ox, oy) from the RGGB base tiling.
func cfaColorAt(x, y, ox, oy int) int {
	ex := (x + ox) & 1
	ey := (y + oy) & 1
	switch {
	case ex == 0 && ey == 0:
		return chanR
	case ex == 1 && ey == 1:
		return chanB
	default:
		return chanG
	}
}

// Demosaic converts a Bayer-mosaic frame to RGB using the selected
// method, dispatching to the OpenCV backend when available. The spatial
// shape is preserved. The pattern token names the CFA from the top-left
// sample of the frame.
func Demosaic(f *RawFrame, pattern BayerPattern, method DemosaicMethod) (*RGBImage, error) {
	return demosaicBackend(f, pattern, method)
}

// DemosaicBilinear interpolates each missing channel from the nearest
// same-color neighbors: four axial neighbors for green, two or four
// for red/blue depending on the center's CFA color. Out-of-range
// neighbors are mirrored across the border, which keeps the CFA phase
// intact (plain edge replication would flip it).
func DemosaicBilinear(f *RawFrame, pattern BayerPattern) *RGBImage {
	ox, oy := pattern.cfaOffset()
	w, h := f.Cols, f.Rows
	out := NewRGBImage(h, w)

	px := func(x, y int) float64 {
		return float64(f.Pix[reflectIdx(y, h)*w+reflectIdx(x, w)])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			switch cfaColorAt(x, y, ox, oy) {
			case chanR:
				r = px(x, y)
				g = (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
				b = (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4
			case chanB:
				r = (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4
				g = (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
				b = px(x, y)
			default:
				g = px(x, y)
				if cfaColorAt(x+1, y, ox, oy) == chanR {
					// Green on a red row.
					r = (px(x-1, y) + px(x+1, y)) / 2
					b = (px(x, y-1) + px(x, y+1)) / 2
				} else {
					r = (px(x, y-1) + px(x, y+1)) / 2
					b = (px(x-1, y) + px(x+1, y)) / 2
				}
			}
			out.Set(x, y, clampByte(r), clampByte(g), clampByte(b))
		}
	}
	return out
}

// The eight interpolation directions, axial first.
var vngDirs = [8][2]int{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
	{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
}

// VNG threshold coefficients (Chang/Tan): a direction survives when
// its gradient is at most k1*min + k2*(max-min).
const (
	vngK1 = 1.5
	vngK2 = 0.5
)

// DemosaicVNG performs variable-number-of-gradients interpolation.
//
// For every pixel, a gradient is computed in each of eight directions
// from pixel differences along and beside that direction. Directions
// whose gradient exceeds the adaptive threshold are discarded: they
// cross an edge. Each surviving direction contributes a candidate
// estimate taken from the 3x3 block centered on its neighbor,
// corrected by the color difference against the center's own channel,
// and candidates are averaged with weights inverse to their gradient.
// Out-of-range neighbors are mirrored across the border to keep the
// CFA phase intact.
func DemosaicVNG(f *RawFrame, pattern BayerPattern) *RGBImage {
	ox, oy := pattern.cfaOffset()
	w, h := f.Cols, f.Rows
	out := NewRGBImage(h, w)

	px := func(x, y int) float64 {
		return float64(f.Pix[reflectIdx(y, h)*w+reflectIdx(x, w)])
	}
	abs := func(v float64) float64 {
		if v < 0 {
			return -v
		}
		return v
	}

	// Per-channel mean over the 3x3 block centered at (cx, cy). A 3x3
	// window of a Bayer mosaic always contains all three channels.
	blockMeans := func(cx, cy int) [3]float64 {
		var sum, cnt [3]float64
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				c := cfaColorAt(cx+dx, cy+dy, ox, oy)
				sum[c] += px(cx+dx, cy+dy)
				cnt[c]++
			}
		}
		var m [3]float64
		for c := 0; c < 3; c++ {
			m[c] = sum[c] / cnt[c]
		}
		return m
	}

	var grad [8]float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := cfaColorAt(x, y, ox, oy)
			cv := px(x, y)

			gmin, gmax := 0.0, 0.0
			for i, d := range vngDirs {
				dx, dy := d[0], d[1]
				// Perpendicular step for the lateral pairs.
				pxd, pyd := -dy, dx
				g := abs(px(x+dx, y+dy)-px(x-dx, y-dy)) +
					abs(px(x+2*dx, y+2*dy)-cv) +
					0.5*abs(px(x+dx+pxd, y+dy+pyd)-px(x-dx+pxd, y-dy+pyd)) +
					0.5*abs(px(x+dx-pxd, y+dy-pyd)-px(x-dx-pxd, y-dy-pyd))
				grad[i] = g
				if i == 0 || g < gmin {
					gmin = g
				}
				if i == 0 || g > gmax {
					gmax = g
				}
			}
			threshold := vngK1*gmin + vngK2*(gmax-gmin)

			var est [3]float64
			var wsum float64
			for i, d := range vngDirs {
				if grad[i] > threshold {
					continue
				}
				weight := 1.0 / (1.0 + grad[i])
				m := blockMeans(x+d[0], y+d[1])
				for c := 0; c < 3; c++ {
					// Color-difference correction: carry the block's
					// channel offsets onto the center sample.
					est[c] += weight * (cv + m[c] - m[center])
				}
				wsum += weight
			}

			var rgb [3]float64
			if wsum > 0 {
				for c := 0; c < 3; c++ {
					rgb[c] = est[c] / wsum
				}
			} else {
				m := blockMeans(x, y)
				for c := 0; c < 3; c++ {
					rgb[c] = cv + m[c] - m[center]
				}
			}
			rgb[center] = cv

			out.Set(x, y, clampByte(rgb[0]), clampByte(rgb[1]), clampByte(rgb[2]))
		}
	}
	return out
}

// reflectIdx mirrors an out-of-range index across the border without
// repeating the edge sample (-1 -> 1, n -> n-2). The two-step mirror
// preserves the even/odd parity that the CFA layout depends on.
func reflectIdx(v, n int) int {
	if n == 1 {
		return 0
	}
	for v < 0 || v >= n {
		if v < 0 {
			v = -v
		}
		if v >= n {
			v = 2*n - 2 - v
		}
	}
	return v
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
