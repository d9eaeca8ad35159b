package utils

import "fmt"

// FormatDuration renders a second count as a compact "1h 2m 3s" string.
// Zero-valued leading parts are dropped, "0s" is returned for nothing.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	out := ""
	if hours > 0 {
		out = fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%dm", minutes)
	}
	if secs > 0 || out == "" {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%ds", secs)
	}
	return out
}

// ThousandSeparator formats an integer with comma grouping for display.
func ThousandSeparator(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return sign + s
	}
	out := ""
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out += ","
		}
		out += string(d)
	}
	return sign + out
}
