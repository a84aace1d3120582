package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mastcam2rgb <label-or-dir> [label-or-dir ...]",
	Short: "Convert MSL Mastcam PDS4 EDR images into viewable color rasters",
	Long: `mastcam2rgb reads PDS4 XML labels and their associated raw IMG files
from the Curiosity Mastcam instrument, applies Bayer demosaicing, white
balance, color correction and contrast stretching, and writes viewable
PNG or TIFF images.

Inputs may be individual .xml labels or directories, which are searched
recursively for labels.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.Flags().StringP("output", "o", "", "Directory for output rasters (default: output_png/ beside each source)")
	rootCmd.Flags().StringP("bayer", "b", "", "Override the Bayer pattern (rggb/grbg/gbrg/bggr; default: grbg per Mastcam KAI-2020)")
	rootCmd.Flags().String("format", "png", "Output raster format (png or tiff)")
	rootCmd.Flags().Bool("bilinear", false, "Use fast bilinear interpolation instead of VNG")
	rootCmd.Flags().IntP("workers", "j", 0, "Parallel workers (default: number of CPUs)")
	rootCmd.Flags().BoolP("verbose", "v", false, "Log per-stage progress")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
