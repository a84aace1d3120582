//go:build purego || js

package mastcam

// demosaicBackend runs the pure-Go interpolation when OpenCV is not
// available (purego builds and wasm).
func demosaicBackend(f *RawFrame, pattern BayerPattern, method DemosaicMethod) (*RGBImage, error) {
	if method == MethodBilinear {
		return DemosaicBilinear(f, pattern), nil
	}
	return DemosaicVNG(f, pattern), nil
}
