package observability

import "time"

// Category classifies an Event. Expected events render without a tag.
type Category int

const (
	Expected Category = iota
	Error
)

// Tag returns the raw tag used in text and JSON output: "" for Expected and
// "error" for Error.
func (c Category) Tag() string {
	if c == Error {
		return "error"
	}
	return ""
}

// String implements fmt.Stringer.
func (c Category) String() string {
	if c == Error {
		return "error"
	}
	return "expected"
}

// DefaultTimeLayout is the layout used for the absolute "time" field.
const DefaultTimeLayout = "2006-01-02 15:04:05 -0700"

// Event is a single recorded notice. Events are created by Recorder.AddEvent
// and are not modified afterwards.
type Event struct {
	Description string
	Category    Category
	CapturedAt  time.Time
}

// OffsetSince returns the seconds elapsed between ref and the capture time.
// The result is negative when ref is after the capture.
func (e Event) OffsetSince(ref time.Time) float64 {
	return e.CapturedAt.Sub(ref).Seconds()
}

// String returns the description, prefixed with "[tag] " when the category
// has a non-empty tag.
func (e Event) String() string {
	if tag := e.Category.Tag(); tag != "" {
		return "[" + tag + "] " + e.Description
	}
	return e.Description
}

// Fields returns the event as a string map with the keys "message", "type"
// and "time". The capture time is rendered in UTC using layout, or
// DefaultTimeLayout when layout is empty.
func (e Event) Fields(layout string) map[string]string {
	return map[string]string{
		"message": e.Description,
		"type":    e.Category.Tag(),
		"time":    formatCaptureTime(e.CapturedAt, layout),
	}
}

func formatCaptureTime(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.UTC().Format(layout)
}
