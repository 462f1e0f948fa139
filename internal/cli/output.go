// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietResult], [FormatProgressLine].
//
//   - Print* functions write the run header before playback starts.
//     Example: [PrintExecutionConfig].

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/format"
	"github.com/agbru/easeplay/internal/orchestration"
	"github.com/agbru/easeplay/internal/ui"
)

// PrintExecutionConfig displays the segment, the derived curve and the
// environment before playback starts.
//
// Parameters:
//   - f: The derived factors of the session.
//   - interval: The scheduler period.
//   - timeout: The run timeout.
//   - out: The writer for standard output.
func PrintExecutionConfig(f easing.Factors, interval, timeout time.Duration, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Playing %s%s%s → %s%s%s over %s%s%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), format.FormatValue(f.Start), ui.ColorReset(),
		ui.ColorMagenta(), format.FormatValue(f.End), ui.ColorReset(),
		ui.ColorCyan(), msDuration(f.TotalMs), ui.ColorReset(),
		ui.ColorYellow(), timeout, ui.ColorReset())
	fmt.Fprintf(out, "Phases: accelerate %s%s%s, linear %s%s%s, decelerate %s%s%s; tick every %s%s%s.\n",
		ui.ColorCyan(), msDuration(f.AcceleratePhaseMs), ui.ColorReset(),
		ui.ColorCyan(), msDuration(f.LinearPhaseMs), ui.ColorReset(),
		ui.ColorCyan(), msDuration(f.DeceleratePhaseMs), ui.ColorReset(),
		ui.ColorCyan(), interval, ui.ColorReset())
	fmt.Fprintf(out, "%sEnvironment: %d logical processors, Go %s.%s\n",
		ui.ColorDim(), runtime.NumCPU(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "\n--- Starting Playback ---\n")
}

// FormatQuietResult formats a result for quiet mode output: the final
// value alone, suitable for scripting.
func FormatQuietResult(result orchestration.SessionResult) string {
	return strconv.Itoa(result.Final)
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
func DisplayQuietResult(out io.Writer, result orchestration.SessionResult) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayResult prints the outcome of a session. Verbose adds the curve
// coefficients.
//
// Parameters:
//   - result: The completed session.
//   - verbose: Whether to print the derived factors.
//   - out: The output writer.
func DisplayResult(result orchestration.SessionResult, verbose bool, out io.Writer) {
	direction := "forward"
	if result.Backward {
		direction = "backward"
	}
	fmt.Fprintf(out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  Final value:  %s%s%s (%s)\n", ui.ColorGreen(), format.FormatValue(result.Final), ui.ColorReset(), direction)
	fmt.Fprintf(out, "  Reported:     %s%d%s values\n", ui.ColorCyan(), result.Reported, ui.ColorReset())
	fmt.Fprintf(out, "  Curve time:   %s%s%s\n", ui.ColorCyan(), format.FormatExecutionDuration(result.Elapsed), ui.ColorReset())
	fmt.Fprintf(out, "  Wall time:    %s%s%s\n", ui.ColorCyan(), format.FormatExecutionDuration(result.Wall), ui.ColorReset())

	if !verbose {
		return
	}
	f := result.Factors
	fmt.Fprintf(out, "\n%sCurve factors:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  Total:          %.3f ms\n", f.TotalMs)
	fmt.Fprintf(out, "  Accelerate A:   %.6g units/ms²\n", f.AccelerateA)
	fmt.Fprintf(out, "  Linear rate:    %.6g units/ms\n", f.LinearRate)
	fmt.Fprintf(out, "  Decelerate A:   %.6g units/ms²\n", f.DecelerateA)
	fmt.Fprintf(out, "  Decelerate B:   %.6g units/ms\n", f.DecelerateB)
	fmt.Fprintf(out, "  Tick interval:  %s\n", result.Interval)
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond)).Round(time.Microsecond)
}
