package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/evrec/internal/observability"
)

// Style definitions.
var (
	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorTagStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// renderStyledText renders the same lines as Recorder.RenderText with the
// offsets dimmed and the error tag highlighted.
func renderStyledText(rec *observability.Recorder) string {
	events := rec.Events()
	lines := make([]string, 0, len(events))
	for _, e := range events {
		msg := e.Description
		if tag := e.Category.Tag(); tag != "" {
			msg = errorTagStyle.Render("["+tag+"]") + " " + msg
		}
		lines = append(lines, offsetStyle.Render(rec.Offset(e)+":")+" "+msg)
	}
	return strings.Join(lines, "\n")
}
