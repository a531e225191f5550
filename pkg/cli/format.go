package cli

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration for humans: "850ms", "7.0s", "1m2.5s".
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	secs := float64(ms) / 1000
	if secs < 60 {
		return fmt.Sprintf("%.1fs", secs)
	}
	mins := int(secs / 60)
	secs = secs - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}

// FormatRate formats a sample rate: "16 kHz", "44.1 kHz", "800 Hz".
func FormatRate(hz float64) string {
	if hz < 1000 {
		return fmt.Sprintf("%.0f Hz", hz)
	}
	khz := hz / 1000
	if khz == float64(int(khz)) {
		return fmt.Sprintf("%d kHz", int(khz))
	}
	return fmt.Sprintf("%.1f kHz", khz)
}
