package alignment

import "fmt"

// FormatTimestamp renders seconds as MM:SS, or HH:MM:SS from one hour on.
// Fractions are truncated and negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	if !finite(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
