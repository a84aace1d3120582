package mastcam

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options controls one Process call. The zero value is usable: output
// goes to an output_png directory beside the source, the instrument
// default pattern and VNG interpolation are used, and no events are
// emitted.
type Options struct {
	// OutputDir receives the encoded raster. Empty means a directory
	// named output_png next to the label.
	OutputDir string
	// PatternOverride replaces the instrument default Bayer pattern
	// when non-empty. Unrecognized tokens fall back to the default
	// with an EventPatternFallback warning.
	PatternOverride string
	// Format of the output raster; FormatPNG when empty.
	Format OutputFormat
	// Method selects the demosaicing algorithm.
	Method DemosaicMethod
	// Events receives observational pipeline events; may be nil.
	Events EventSink
}

// Result describes one successfully processed image.
type Result struct {
	Metadata   *ImageMetadata
	OutputPath string
}

// Process converts one PDS4 label + IMG pair into a color raster:
// parse label, extract the raw Bayer frame, demosaic, white balance,
// color correct, contrast stretch, encode. Every failure is a typed
// error scoped to this one image; Process never panics on bad input.
func Process(labelPath string, opts Options) (*Result, error) {
	switch opts.Format {
	case "":
		opts.Format = FormatPNG
	case FormatPNG, FormatTIFF:
	default:
		return nil, fmt.Errorf("unsupported output format %q", string(opts.Format))
	}

	meta, err := ParseLabel(labelPath)
	if err != nil {
		return nil, err
	}
	opts.Events.emit(Event{
		Kind:  EventLabelParsed,
		Label: labelPath,
		Message: fmt.Sprintf("offset=%d size=%dx%d",
			meta.ByteOffset, meta.Cols, meta.Rows),
	})

	if opts.PatternOverride != "" {
		p, ok := ParseBayerPattern(opts.PatternOverride)
		if !ok {
			opts.Events.emit(Event{
				Kind:    EventPatternFallback,
				Label:   labelPath,
				Message: fmt.Sprintf("unknown Bayer pattern %q, using %s", opts.PatternOverride, DefaultPattern),
			})
		}
		meta.Pattern = p
	}

	imgPath := filepath.Join(filepath.Dir(labelPath), meta.SourceFile)
	frame, err := ReadRawFrame(imgPath, meta.ByteOffset, meta.Rows, meta.Cols)
	if err != nil {
		return nil, err
	}
	opts.Events.emit(Event{Kind: EventStageDone, Label: labelPath, Stage: "extract"})

	rgb, err := Demosaic(frame, meta.Pattern, opts.Method)
	if err != nil {
		return nil, fmt.Errorf("demosaic %s: %w", imgPath, err)
	}
	opts.Events.emit(Event{Kind: EventStageDone, Label: labelPath, Stage: "demosaic"})

	WhiteBalance(rgb)
	opts.Events.emit(Event{Kind: EventStageDone, Label: labelPath, Stage: "white_balance"})
	ColorCorrect(rgb)
	opts.Events.emit(Event{Kind: EventStageDone, Label: labelPath, Stage: "color_correct"})
	StretchContrast(rgb)
	opts.Events.emit(Event{Kind: EventStageDone, Label: labelPath, Stage: "stretch"})

	outPath, err := outputPath(labelPath, imgPath, opts)
	if err != nil {
		return nil, err
	}
	if err := WriteImage(rgb, outPath, opts.Format); err != nil {
		return nil, err
	}
	opts.Events.emit(Event{Kind: EventImageWritten, Label: labelPath, Message: outPath})

	return &Result{Metadata: meta, OutputPath: outPath}, nil
}

// outputPath decides where the raster goes: <base>_RGB.<ext> inside the
// requested output directory, or inside output_png beside the source
// when none was given. The directory is created if needed.
func outputPath(labelPath, imgPath string, opts Options) (string, error) {
	destDir := opts.OutputDir
	if destDir == "" {
		destDir = filepath.Join(filepath.Dir(labelPath), "output_png")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	base := filepath.Base(imgPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(destDir, base+"_RGB"+opts.Format.Ext()), nil
}
