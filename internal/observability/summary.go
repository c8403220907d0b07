package observability

// Summary holds aggregate counts derived from a Recorder.
type Summary struct {
	Name          string `json:"name"`
	EventCount    int    `json:"event_count"`
	ExpectedCount int    `json:"expected_count"`
	ErrorCount    int    `json:"error_count"`
	FirstOffset   string `json:"first_offset,omitempty"`
	LastOffset    string `json:"last_offset,omitempty"`
}

// Summarize walks the recorded events and aggregates them by category.
func Summarize(r *Recorder) Summary {
	events := r.Events()
	s := Summary{
		Name:       r.Name(),
		EventCount: len(events),
	}

	for i, e := range events {
		if i == 0 {
			s.FirstOffset = r.Offset(e)
		}
		s.LastOffset = r.Offset(e)

		switch e.Category {
		case Error:
			s.ErrorCount++
		default:
			s.ExpectedCount++
		}
	}

	return s
}

// Failed reports whether any Error event was recorded.
func (s Summary) Failed() bool {
	return s.ErrorCount > 0
}
