package observability

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// =============================================================================
// Property 1: Elapsed Format Strips Leading Zero Components
// =============================================================================

// Feature: observability, Property 1: Elapsed Format Strips Leading Zero Components
// *For any* non-negative duration, FormatElapsed SHALL never start with a
// '0' that is followed by anything other than '.', SHALL contain at most two
// ':' separators, and SHALL always end with a two digit fraction unless the
// duration rounds to zero.
func TestProperty1_ElapsedFormatStripsLeadingZeros(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seconds := rapid.Float64Range(0, 400000).Draw(rt, "seconds")
		got := FormatElapsed(seconds)

		if got == "0" {
			return
		}
		if strings.HasPrefix(got, "0") && !strings.HasPrefix(got, "0.") {
			rt.Fatalf("FormatElapsed(%v) = %q has a leading zero component", seconds, got)
		}
		if strings.Count(got, ":") > 2 {
			rt.Fatalf("FormatElapsed(%v) = %q has too many components", seconds, got)
		}
		dot := strings.LastIndex(got, ".")
		if dot < 0 || len(got)-dot != 3 {
			rt.Fatalf("FormatElapsed(%v) = %q does not end in a two digit fraction", seconds, got)
		}
	})
}

// =============================================================================
// Property 2: Elapsed Format Round Trips To The Hundredth
// =============================================================================

// Feature: observability, Property 2: Elapsed Format Round Trips To The Hundredth
// *For any* whole number of hundredths, parsing the formatted string back into
// hours, minutes, seconds and hundredths SHALL yield the original count.
func TestProperty2_ElapsedFormatRoundTrips(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		centis := rapid.Int64Range(1, 50000000).Draw(rt, "centis")
		got := FormatElapsed(float64(centis) / 100)

		whole, frac, ok := strings.Cut(got, ".")
		if !ok {
			rt.Fatalf("FormatElapsed = %q has no fraction", got)
		}
		var parsed int64
		for _, part := range strings.Split(whole, ":") {
			n, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				rt.Fatalf("parsing %q from %q: %v", part, got, err)
			}
			parsed = parsed*60 + n
		}
		hundredths, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			rt.Fatalf("parsing fraction from %q: %v", got, err)
		}
		parsed = parsed*100 + hundredths

		if parsed != centis {
			rt.Fatalf("FormatElapsed(%d/100) = %q parses back as %d", centis, got, parsed)
		}
	})
}

// =============================================================================
// Property 3: JSON Render Preserves Count And Order
// =============================================================================

// Feature: observability, Property 3: JSON Render Preserves Count And Order
// *For any* sequence of appended events, RenderJSON SHALL decode to an array
// of the same length whose messages and types follow append order, and
// RenderText SHALL contain exactly one line per event.
func TestProperty3_RenderPreservesCountAndOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(rt, "numEvents")
		steps := make([]time.Duration, n)
		for i := range steps {
			steps[i] = time.Duration(rapid.IntRange(0, 120000).Draw(rt, fmt.Sprintf("stepMs_%d", i))) * time.Millisecond
		}
		r := newTestRecorder(steps...)

		messages := make([]string, n)
		categories := make([]Category, n)
		for i := 0; i < n; i++ {
			messages[i] = fmt.Sprintf("event-%d", i)
			categories[i] = rapid.SampledFrom([]Category{Expected, Error}).Draw(rt, fmt.Sprintf("category_%d", i))
			r.AddEvent(messages[i], categories[i])
		}

		var records []Record
		if err := json.Unmarshal([]byte(r.RenderJSON()), &records); err != nil {
			rt.Fatalf("RenderJSON() is not valid JSON: %v", err)
		}
		if len(records) != n {
			rt.Fatalf("decoded %d records, want %d", len(records), n)
		}
		for i, rec := range records {
			if rec.Message != messages[i] {
				rt.Errorf("record %d message = %q, want %q", i, rec.Message, messages[i])
			}
			if rec.Type != categories[i].Tag() {
				rt.Errorf("record %d type = %q, want %q", i, rec.Type, categories[i].Tag())
			}
		}

		text := r.RenderText()
		if n == 0 {
			if text != "" {
				rt.Fatalf("RenderText() = %q, want empty", text)
			}
			return
		}
		lines := strings.Split(text, "\n")
		if len(lines) != n {
			rt.Fatalf("RenderText() has %d lines, want %d", len(lines), n)
		}
		for i, line := range lines {
			if !strings.HasSuffix(line, messages[i]) {
				rt.Errorf("line %d = %q, want suffix %q", i, line, messages[i])
			}
			if hasTag := strings.Contains(line, "[error] "); hasTag != (categories[i] == Error) {
				rt.Errorf("line %d = %q, tag presence %v for category %v", i, line, hasTag, categories[i])
			}
		}
	})
}
