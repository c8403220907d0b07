package observability

import (
	"fmt"
	"math"
)

// FormatElapsed renders a duration in seconds as "H:MM:SS.CC" with the
// leading zero hour, minute and second components stripped, e.g. 5.3 becomes
// "5.30" and 65 becomes "1:05.00". The fraction is rounded half-up to
// hundredths and a rounded value of 100 carries into the seconds place.
// A zero duration renders as "0". Negative durations are prefixed with "-".
// NaN and infinite values render as "0".
func FormatElapsed(totalSeconds float64) string {
	if math.IsNaN(totalSeconds) || math.IsInf(totalSeconds, 0) {
		return "0"
	}
	if totalSeconds < 0 {
		s := FormatElapsed(-totalSeconds)
		if s == "0" {
			return s
		}
		return "-" + s
	}

	centis := math.Floor(totalSeconds*100 + 0.5)
	if centis >= maxIntCentis {
		return formatLargeElapsed(centis)
	}

	c := int64(centis)
	hours := c / 360000
	minutes := c / 6000 % 60
	seconds := c / 100 % 60
	hundredths := c % 100

	return trimClock(fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, hundredths))
}

// maxIntCentis bounds the centisecond counts that convert to int64 exactly.
const maxIntCentis = 1 << 62

// formatLargeElapsed keeps the hour count as a float so durations beyond the
// int64 range still render as a well-formed clock string.
func formatLargeElapsed(centis float64) string {
	rem := int64(math.Mod(centis, 360000))
	hours := math.Round((centis - float64(rem)) / 360000)
	return fmt.Sprintf("%.0f:%02d:%02d.%02d", hours, rem/6000, rem/100%60, rem%100)
}

// trimClock drops the leading run of '0' and ':' characters. A '.' keeps the
// zero in front of it. The scan never moves past the last character.
func trimClock(s string) string {
	last := len(s) - 1
	for i := 0; i < last; i++ {
		switch s[i] {
		case '0', ':':
			continue
		case '.':
			if !hasNonZeroDigit(s[i+1:]) {
				return s[last:]
			}
			return s[i-1:]
		default:
			return s[i:]
		}
	}
	return s[last:]
}

func hasNonZeroDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '1' && s[i] <= '9' {
			return true
		}
	}
	return false
}
