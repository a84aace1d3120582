package mastcam

import "fmt"

// EventKind identifies a notable transition inside the pipeline.
type EventKind int

const (
	// EventLabelParsed fires after the label geometry is extracted.
	EventLabelParsed EventKind = iota
	// EventPatternFallback fires when an unrecognized Bayer token was
	// replaced by the instrument default. A warning, not a failure.
	EventPatternFallback
	// EventStageDone fires after each processing stage completes.
	EventStageDone
	// EventImageWritten fires after the output raster is encoded.
	EventImageWritten
)

func (k EventKind) String() string {
	switch k {
	case EventLabelParsed:
		return "label_parsed"
	case EventPatternFallback:
		return "pattern_fallback"
	case EventStageDone:
		return "stage_done"
	case EventImageWritten:
		return "image_written"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one observation emitted by the pipeline.
type Event struct {
	Kind    EventKind
	Label   string // label path being processed
	Stage   string // stage name for EventStageDone
	Message string
}

// EventSink receives pipeline events. Sinks are purely observational:
// processing is correct with a nil sink, and a sink must not assume
// any particular event ordering beyond stage order within one image.
type EventSink func(Event)

// emit sends an event to the sink if one is set.
func (s EventSink) emit(e Event) {
	if s != nil {
		s(e)
	}
}
