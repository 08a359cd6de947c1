package utils

import (
	"fmt"
	"strconv"
	"time"
)

// FormatShortNotation formats a number using short notation (e.g., 15k instead of 15000)
func FormatShortNotation(value int64) string {
	absValue := value
	sign := ""
	if value < 0 {
		absValue = -value
		sign = "-"
	}

	switch {
	case absValue >= 1_000_000:
		return fmt.Sprintf("%s%.2fM", sign, float64(absValue)/1_000_000)
	case absValue >= 10_000:
		return fmt.Sprintf("%s%dk", sign, absValue/1_000)
	case absValue >= 1_000:
		return fmt.Sprintf("%s%.1fk", sign, float64(absValue)/1_000)
	default:
		return fmt.Sprintf("%s%d", sign, absValue)
	}
}

// FormatPoints renders a balance with thousands separators
func FormatPoints(value int64) string {
	s := strconv.FormatInt(value, 10)
	sign := ""
	if value < 0 {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}

// FormatRemaining renders the time left until a deadline, e.g. "1h 5m"
func FormatRemaining(until time.Duration) string {
	if until <= 0 {
		return "closed"
	}
	until = until.Round(time.Minute)
	hours := int(until / time.Hour)
	minutes := int((until % time.Hour) / time.Minute)
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "<1m"
	}
}
