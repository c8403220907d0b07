package observability

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Clock supplies the current time to a Recorder. The Recorder only calls Now
// while holding its lock, so implementations need not be safe for concurrent
// use.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Record is the JSON shape of a rendered event.
type Record struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Time    string `json:"time"`
	Offset  string `json:"offset"`
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock makes the Recorder read timestamps from c instead of the wall clock.
func WithClock(c Clock) Option {
	return func(r *Recorder) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithTimeLayout sets the layout of the absolute "time" field in JSON output.
func WithTimeLayout(layout string) Option {
	return func(r *Recorder) {
		if layout != "" {
			r.timeLayout = layout
		}
	}
}

// Recorder accumulates events in the order they are added. Offsets are
// measured from the time the Recorder was created.
type Recorder struct {
	name       string
	createdAt  time.Time
	clock      Clock
	timeLayout string

	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder and stamps its creation time.
func NewRecorder(name string, opts ...Option) *Recorder {
	r := &Recorder{
		name:       name,
		clock:      ClockFunc(time.Now),
		timeLayout: DefaultTimeLayout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.createdAt = r.clock.Now()
	return r
}

// Name returns the label given at construction.
func (r *Recorder) Name() string { return r.name }

// CreatedAt returns the reference time for all offsets.
func (r *Recorder) CreatedAt() time.Time { return r.createdAt }

// AddEvent appends an event captured now. The category defaults to Expected;
// only the first category argument is used.
func (r *Recorder) AddEvent(description string, category ...Category) {
	c := Expected
	if len(category) > 0 {
		c = category[0]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		Description: description,
		Category:    c,
		CapturedAt:  r.clock.Now(),
	})
}

// AddError appends an event with the Error category.
func (r *Recorder) AddError(description string) {
	r.AddEvent(description, Error)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Events returns a copy of the recorded events in insertion order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Offset returns the formatted offset of e relative to the creation time.
func (r *Recorder) Offset(e Event) string {
	return FormatElapsed(e.OffsetSince(r.createdAt))
}

// RenderText returns one "<offset>: <message>" line per event, joined by
// newlines without a trailing newline. An empty Recorder renders as "".
func (r *Recorder) RenderText() string {
	events := r.Events()
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, r.Offset(e)+": "+e.String())
	}
	return strings.Join(lines, "\n")
}

// Records returns the JSON shape of every event in insertion order.
func (r *Recorder) Records() []Record {
	events := r.Events()
	records := make([]Record, 0, len(events))
	for _, e := range events {
		fields := e.Fields(r.timeLayout)
		records = append(records, Record{
			Message: fields["message"],
			Type:    fields["type"],
			Time:    fields["time"],
			Offset:  r.Offset(e),
		})
	}
	return records
}

// RenderJSON returns the events as an indented JSON array. An empty Recorder
// renders as "[]".
func (r *Recorder) RenderJSON() string {
	data, err := json.MarshalIndent(r.Records(), "", "  ")
	if err != nil {
		// Every field is a plain string.
		panic(fmt.Sprintf("encoding events for %q: %v", r.name, err))
	}
	return string(data)
}
