package format

import (
	"strconv"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal string,
// keeping a leading minus sign.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}

	var builder strings.Builder
	builder.Grow(len(sign) + n + (n-1)/3)
	builder.WriteString(sign)
	head := n % 3
	if head == 0 {
		head = 3
	}
	builder.WriteString(s[:head])
	for i := head; i < n; i += 3 {
		builder.WriteByte(',')
		builder.WriteString(s[i : i+3])
	}
	return builder.String()
}

// FormatValue renders a playback value with thousands separators.
func FormatValue(v int) string {
	return FormatNumberString(strconv.Itoa(v))
}
