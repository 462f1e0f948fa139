package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/easeplay/internal/format"
)

// HeaderModel renders the top bar: title, version, segment and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	segment   string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, from, to int) HeaderModel {
	h := HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
	h.SetSegment(from, to)
	return h
}

// SetSegment updates the segment label.
func (h *HeaderModel) SetSegment(from, to int) {
	h.segment = format.FormatValue(from) + " → " + format.FormatValue(to)
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Easeplay"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	duration := time.Since(h.startTime)
	if !h.endTime.IsZero() {
		duration = h.endTime.Sub(h.startTime)
	}
	elapsed := elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(duration)))

	row := titleStyle.Render(titleText) + pipe + versionStyle.Render(h.segment) + pipe + elapsed
	gap := max(h.width-2-lipgloss.Width(row), 0)
	return headerStyle.Width(h.width).Render(row + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
