package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agbru/easeplay/internal/format"
	"github.com/agbru/easeplay/internal/orchestration"
)

// historySize bounds the samples kept for the value chart.
const historySize = 512

// ChartModel plots reported values against the segment bounds, with the
// per-tick step size underneath.
type ChartModel struct {
	values   *RingBuffer
	steps    *RingBuffer
	lo, hi   float64
	last     orchestration.ProgressUpdate
	hasValue bool
	done     bool
	wall     time.Duration
	width    int
	height   int
}

// NewChartModel creates a chart scaled to the segment [from, to].
func NewChartModel(from, to int) ChartModel {
	c := ChartModel{
		values: NewRingBuffer(historySize),
		steps:  NewRingBuffer(historySize),
	}
	c.SetBounds(from, to)
	return c
}

// SetBounds rescales the chart to a new segment.
func (c *ChartModel) SetBounds(from, to int) {
	c.lo = math.Min(float64(from), float64(to))
	c.hi = math.Max(float64(from), float64(to))
}

// SetSize updates dimensions.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	if cols := c.plotWidth() * 2; cols > 0 {
		c.values.Resize(cols)
		c.steps.Resize(c.plotWidth())
	}
}

// AddDataPoint records one reported value.
func (c *ChartModel) AddDataPoint(u orchestration.ProgressUpdate) {
	if c.hasValue {
		c.steps.Push(math.Abs(float64(u.Value - c.last.Value)))
	}
	c.values.Push(float64(u.Value))
	c.last = u
	c.hasValue = true
	c.done = false
}

// SetDone freezes the chart footer with the session's wall time.
func (c *ChartModel) SetDone(wall time.Duration) {
	c.done = true
	c.wall = wall
}

// Reset clears the history.
func (c *ChartModel) Reset() {
	c.values.Reset()
	c.steps.Reset()
	c.last = orchestration.ProgressUpdate{}
	c.hasValue = false
	c.done = false
	c.wall = 0
}

func (c ChartModel) plotWidth() int {
	return max(c.width-4, 1)
}

// plotRows leaves room for the title, the progress bar, the step
// sparkline and the borders.
func (c ChartModel) plotRows() int {
	return max(c.height-5, 1)
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(" Value "))
	b.WriteString(metricLabelStyle.Render(fmt.Sprintf("[%s … %s]",
		format.FormatValue(int(c.lo)), format.FormatValue(int(c.hi)))))

	plot := RenderBrailleChart(Scale(c.values.Slice(), c.lo, c.hi), c.plotWidth(), c.plotRows())
	for i := 0; i < c.plotRows(); i++ {
		b.WriteString("\n ")
		if i < len(plot) {
			b.WriteString(chartLineStyle.Render(plot[i]))
		}
	}

	b.WriteString("\n ")
	b.WriteString(c.renderProgressBar())

	steps := c.steps.Slice()
	_, peak := Bounds(steps)
	b.WriteString("\n ")
	b.WriteString(velocityStyle.Render(RenderSparkline(Scale(steps, 0, peak))))

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}

// renderProgressBar renders the direction, value, fraction and ETA.
func (c ChartModel) renderProgressBar() string {
	arrow := "→"
	if c.last.Backward {
		arrow = "←"
	}
	label := fmt.Sprintf("%s %s", arrow, format.FormatValue(c.last.Value))
	barWidth := max(c.plotWidth()-len([]rune(label))-24, 5)
	filled := int(clampPercent(c.last.Fraction*100) / 100 * float64(barWidth))

	eta := "ETA: " + format.FormatETA(c.last.Remaining)
	if c.done {
		eta = "done in " + format.FormatExecutionDuration(c.wall)
	}
	return fmt.Sprintf("%s %s%s %5.1f%% %s",
		metricValueStyle.Render(label),
		chartBarStyle.Render(strings.Repeat("█", filled)),
		chartEmptyStyle.Render(strings.Repeat("░", barWidth-filled)),
		clampPercent(c.last.Fraction*100),
		metricLabelStyle.Render(eta))
}
