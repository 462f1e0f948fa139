package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a wall-clock duration for display:
// microseconds below a millisecond, whole milliseconds below a second, and
// time.Duration's own format above.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%d\u00b5s", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
