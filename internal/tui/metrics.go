package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/easeplay/internal/format"
	"github.com/agbru/easeplay/internal/orchestration"
	"github.com/agbru/easeplay/internal/sysmon"
)

// MetricsModel displays the session status and runtime memory.
type MetricsModel struct {
	status orchestration.Status
	mem    MemStatsMsg
	host   sysmon.Stats
	width  int
	height int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateStatus stores the latest session status.
func (m *MetricsModel) UpdateStatus(st orchestration.Status) {
	m.status = st
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.mem = msg
}

// UpdateHostStats stores the latest host sample.
func (m *MetricsModel) UpdateHostStats(msg HostStatsMsg) {
	m.host = sysmon.Stats(msg)
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	colWidth := max((m.width-6)/2, 0)
	st := m.status

	left := []string{
		formatMetricCol("State:", st.State, colWidth),
		formatMetricCol("Value:", format.FormatValue(st.Value), colWidth),
		formatMetricCol("Curve:", fmt.Sprintf("%.0f / %.0f ms", st.ElapsedMs, st.TotalMs), colWidth),
	}
	right := []string{
		formatMetricCol("Sessions:", fmt.Sprintf("%d (%d done)", st.Sessions, st.Completions), colWidth),
		formatMetricCol("Stale ticks:", fmt.Sprintf("%d", st.StaleTicks), colWidth),
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.mem.Goroutines), colWidth),
	}

	var rows strings.Builder
	heap := metricValueStyle.Render(formatBytes(m.mem.HeapAlloc) + " / " + formatBytes(m.mem.Sys))
	gc := metricValueStyle.Render(fmt.Sprintf("%d", m.mem.NumGC))
	host := metricValueStyle.Render(m.host.String())
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s%s%s %s",
		metricLabelStyle.Render("Heap:"), heap,
		metricLabelStyle.Render(" | "),
		metricLabelStyle.Render("GC:"), gc,
		metricLabelStyle.Render(" | "),
		metricLabelStyle.Render("Host:"), host))
	for i := range left {
		rows.WriteString("\n")
		rows.WriteString(left[i])
		rows.WriteString(right[i])
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
