package subtitle

import (
	"fmt"
	"math"
)

// FormatTimestamp converts a seconds offset to the SRT time format
// HH:MM:SS,mmm. Hours are not clamped; negative inputs are treated as zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	whole := math.Floor(seconds)
	millis := int(math.Round((seconds - whole) * 1000))

	total := int(whole)
	// Rounding the fractional part can produce a full second
	if millis == 1000 {
		millis = 0
		total++
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp converts an SRT HH:MM:SS,mmm time string back to seconds.
func ParseTimestamp(s string) (float64, error) {
	var h, m, sec, ms int
	if _, err := fmt.Sscanf(s, "%d:%d:%d,%d", &h, &m, &sec, &ms); err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	if m < 0 || m > 59 || sec < 0 || sec > 59 || ms < 0 || ms > 999 || h < 0 {
		return 0, fmt.Errorf("timestamp %q out of range", s)
	}
	return float64(h)*3600 + float64(m)*60 + float64(sec) + float64(ms)/1000, nil
}
