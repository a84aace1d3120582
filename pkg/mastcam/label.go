package mastcam

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// PDS4 labels are namespace-qualified XML, but archived products vary
// in whether the default namespace prefix is declared. Every lookup is
// therefore an ordered list of paths tried in sequence: the
// pds-prefixed form first, the bare form second, first match wins.
var (
	fileNamePaths = []string{"//pds:file_name", "//file_name"}
	arrayPaths    = []string{"//pds:Array_2D_Image", "//Array_2D_Image"}
	offsetPaths   = []string{".//pds:offset", ".//offset"}
	linesPaths    = []string{
		".//pds:Axis_Array[pds:axis_name='Line']/pds:elements",
		".//Axis_Array[axis_name='Line']/elements",
	}
	samplesPaths = []string{
		".//pds:Axis_Array[pds:axis_name='Sample']/pds:elements",
		".//Axis_Array[axis_name='Sample']/elements",
	}
)

// ParseLabel reads a PDS4 XML label and extracts the geometry of its
// Array_2D_Image: referenced data file, byte offset, and the element
// counts of the axes named "Line" and "Sample". Axis entries are
// matched on their axis_name value, never on position.
//
// BitDepth and Pattern are instrument constants (8-bit, GRBG) and are
// not read from the label.
func ParseLabel(labelPath string) (*ImageMetadata, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(labelPath); err != nil {
		return nil, fmt.Errorf("reading label %s: %w", labelPath, err)
	}
	return parseLabelDoc(doc, labelPath)
}

// ParseLabelBytes is ParseLabel over an in-memory label document.
func ParseLabelBytes(data []byte, name string) (*ImageMetadata, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("reading label %s: %w", name, err)
	}
	return parseLabelDoc(doc, name)
}

func parseLabelDoc(doc *etree.Document, labelPath string) (*ImageMetadata, error) {
	root := doc.Root()
	if root == nil {
		return nil, &MissingFieldError{Field: "Array_2D_Image", Label: labelPath}
	}

	fileName, ok := findText(root, fileNamePaths)
	if !ok {
		return nil, &MissingFieldError{Field: "file_name", Label: labelPath}
	}

	arr := findElement(root, arrayPaths)
	if arr == nil {
		return nil, &MissingFieldError{Field: "Array_2D_Image", Label: labelPath}
	}

	offset, err := findCount(arr, offsetPaths, "offset", labelPath)
	if err != nil {
		return nil, err
	}
	rows, err := findAxisCount(arr, linesPaths, "Axis_Array[Line]/elements", labelPath)
	if err != nil {
		return nil, err
	}
	cols, err := findAxisCount(arr, samplesPaths, "Axis_Array[Sample]/elements", labelPath)
	if err != nil {
		return nil, err
	}

	return &ImageMetadata{
		SourceFile: fileName,
		ByteOffset: offset,
		Rows:       int(rows),
		Cols:       int(cols),
		BitDepth:   8,
		Pattern:    DefaultPattern,
	}, nil
}

// findElement evaluates the ordered path list against scope and returns
// the first match, or nil.
func findElement(scope *etree.Element, paths []string) *etree.Element {
	for _, p := range paths {
		if el := scope.FindElement(p); el != nil {
			return el
		}
	}
	return nil
}

// findText returns the trimmed text of the first matching path.
func findText(scope *etree.Element, paths []string) (string, bool) {
	el := findElement(scope, paths)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

// findCount resolves a field expected to hold a non-negative integer.
func findCount(scope *etree.Element, paths []string, field, labelPath string) (int64, error) {
	text, ok := findText(scope, paths)
	if !ok {
		return 0, &MissingFieldError{Field: field, Label: labelPath}
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil || v < 0 {
		return 0, &MalformedValueError{Field: field, Value: text, Label: labelPath}
	}
	return v, nil
}

// maxAxisElements bounds a single axis of the image array. No sensor
// in the archive comes near this; anything above it is label
// corruption, and rejecting it here keeps rows*cols inside int range
// on every platform.
const maxAxisElements = math.MaxInt32

// findAxisCount is findCount for axis element counts, which must also
// fit the per-axis bound.
func findAxisCount(scope *etree.Element, paths []string, field, labelPath string) (int64, error) {
	v, err := findCount(scope, paths, field, labelPath)
	if err != nil {
		return 0, err
	}
	if v > maxAxisElements {
		return 0, &MalformedValueError{Field: field, Value: strconv.FormatInt(v, 10), Label: labelPath}
	}
	return v, nil
}
