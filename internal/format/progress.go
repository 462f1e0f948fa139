package format

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar renders progress (clamped to [0, 1]) as a bar of length
// runes.
func ProgressBar(progress float64, length int) string {
	progress = clamp01(progress)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// FormatETA renders a remaining duration compactly: "< 1s", "45s",
// "2m30s", "1h15m". Non-positive durations render as "done".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "done"
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// FormatProgressBarWithETA renders "  42.0% [████░░░░] ETA: 2s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	progress = clamp01(progress)
	return fmt.Sprintf("%6.1f%% [%s] ETA: %s", progress*100, ProgressBar(progress, width), FormatETA(eta))
}

// Remaining returns total minus elapsed, never negative.
func Remaining(elapsed, total time.Duration) time.Duration {
	if elapsed >= total {
		return 0
	}
	return total - elapsed
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
