package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jceidel/curiosity-raw-image-pipeline/pkg/mastcam"
)

func runBatch(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output")
	bayer, _ := cmd.Flags().GetString("bayer")
	formatStr, _ := cmd.Flags().GetString("format")
	bilinear, _ := cmd.Flags().GetBool("bilinear")
	workers, _ := cmd.Flags().GetInt("workers")
	verbose, _ := cmd.Flags().GetBool("verbose")

	format, err := mastcam.ParseOutputFormat(formatStr)
	if err != nil {
		return err
	}
	if bayer != "" {
		if _, ok := mastcam.ParseBayerPattern(bayer); !ok {
			return fmt.Errorf("unknown Bayer pattern %q (want rggb, grbg, gbrg or bggr)", bayer)
		}
	}
	method := mastcam.MethodVNG
	if bilinear {
		method = mastcam.MethodBilinear
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var labels []string
	for _, input := range args {
		found, err := findLabels(input)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			continue
		}
		labels = append(labels, found...)
	}
	if len(labels) == 0 {
		return fmt.Errorf("no XML label files found, check your input paths")
	}
	sort.Strings(labels)

	fmt.Printf("Found %d XML label(s) to process.\n\n", len(labels))
	start := time.Now()

	// Each label's full pipeline runs on an independent worker; nothing
	// is shared between images, so a failure never cancels siblings.
	var (
		wg      sync.WaitGroup
		sem     = make(chan struct{}, workers)
		mu      sync.Mutex
		success int
		failed  int
	)
	for _, labelPath := range labels {
		wg.Add(1)
		sem <- struct{}{}
		go func(labelPath string) {
			defer wg.Done()
			defer func() { <-sem }()

			opts := mastcam.Options{
				OutputDir:       outputDir,
				PatternOverride: bayer,
				Format:          format,
				Method:          method,
			}
			if verbose {
				opts.Events = logEvent
			}

			result, err := mastcam.Process(labelPath, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				fmt.Printf("FAIL %s: %v\n", filepath.Base(labelPath), err)
				return
			}
			success++
			fmt.Printf("OK   %s -> %s\n", filepath.Base(labelPath), result.OutputPath)
		}(labelPath)
	}
	wg.Wait()

	fmt.Printf("\nBatch complete in %.1fs: %d succeeded, %d failed, %d total.\n",
		time.Since(start).Seconds(), success, failed, len(labels))
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(labels))
	}
	return nil
}

// findLabels expands one input argument into label paths: an .xml file
// is taken as-is, a directory is walked recursively for .xml files.
func findLabels(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path not found: %s", path)
	}

	if !info.IsDir() {
		if !isXML(path) {
			return nil, fmt.Errorf("skipping non-XML file: %s", path)
		}
		return []string{path}, nil
	}

	var labels []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isXML(p) {
			labels = append(labels, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	return labels, nil
}

func isXML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

func logEvent(e mastcam.Event) {
	switch e.Kind {
	case mastcam.EventStageDone:
		fmt.Printf("  %s: %s done\n", filepath.Base(e.Label), e.Stage)
	default:
		fmt.Printf("  %s: %s %s\n", filepath.Base(e.Label), e.Kind, e.Message)
	}
}
