package mastcam

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/tiff"
)

// OutputFormat selects the raster container for the final image.
type OutputFormat string

const (
	FormatPNG  OutputFormat = "png"
	FormatTIFF OutputFormat = "tiff"
)

// Ext returns the file extension for the format, dot included.
func (f OutputFormat) Ext() string {
	if f == FormatTIFF {
		return ".tif"
	}
	return ".png"
}

// ParseOutputFormat normalizes a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "":
		return FormatPNG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// ToImage copies the pixel buffer into an image.RGBA for encoding.
func (m *RGBImage) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Cols, m.Rows))
	for i := 0; i < m.Rows*m.Cols; i++ {
		img.Pix[i*4] = m.Pix[i*3]
		img.Pix[i*4+1] = m.Pix[i*3+1]
		img.Pix[i*4+2] = m.Pix[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// WriteImage encodes the image to path in the given lossless format.
// The format must be one of the declared OutputFormat values; anything
// else is rejected before the file is created, so a caller can never
// end up with a mislabeled container.
func WriteImage(m *RGBImage, path string, format OutputFormat) error {
	switch format {
	case FormatPNG, FormatTIFF:
	default:
		return fmt.Errorf("unsupported output format %q", string(format))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	img := m.ToImage()
	switch format {
	case FormatTIFF:
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
