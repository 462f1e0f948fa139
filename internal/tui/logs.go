package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/format"
	"github.com/agbru/easeplay/internal/orchestration"
)

// maxLogEntries bounds the log history.
const maxLogEntries = 500

// progressLogEvery throttles value entries to one per this many updates.
const progressLogEvery = 25

// LogsModel is the scrolling event log.
type LogsModel struct {
	viewport viewport.Model
	entries  []string
	updates  int
	width    int
	height   int
}

// NewLogsModel creates an empty log.
func NewLogsModel() LogsModel {
	return LogsModel{viewport: viewport.New(0, 0)}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
	l.viewport.Width = max(w-4, 0)
	l.viewport.Height = max(h-3, 0)
	l.refresh()
}

// Update forwards scrolling keys to the viewport.
func (l *LogsModel) Update(msg tea.Msg) {
	l.viewport, _ = l.viewport.Update(msg)
}

// Reset clears every entry.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.updates = 0
	l.refresh()
}

// Len returns the number of entries.
func (l LogsModel) Len() int { return len(l.entries) }

func (l *LogsModel) add(text string) {
	stamp := logTimeStyle.Render(time.Now().Format("15:04:05.000"))
	l.entries = append(l.entries, stamp+" "+text)
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[len(l.entries)-maxLogEntries:]
	}
	atBottom := l.viewport.AtBottom()
	l.refresh()
	if atBottom {
		l.viewport.GotoBottom()
	}
}

func (l *LogsModel) refresh() {
	l.viewport.SetContent(strings.Join(l.entries, "\n"))
}

// AddCurve logs the configured segment and curve.
func (l *LogsModel) AddCurve(cfg easing.Config) {
	l.add(fmt.Sprintf("%s %s → %s, %gms, accel %.2f, decel %.2f",
		logOpStyle.Render("configured"),
		format.FormatValue(cfg.Start), format.FormatValue(cfg.End),
		cfg.TotalMs, cfg.AccelerateRatio, cfg.DecelerateRatio))
}

// AddTransition logs a key-triggered transition.
func (l *LogsModel) AddTransition(msg TransitionMsg) {
	if msg.Err != nil {
		l.AddError(msg.Op, msg.Err)
		return
	}
	l.add(logOpStyle.Render(msg.Op))
}

// AddProgress logs every progressLogEvery-th value.
func (l *LogsModel) AddProgress(u orchestration.ProgressUpdate) {
	l.updates++
	if l.updates%progressLogEvery != 0 {
		return
	}
	l.add(logProgressStyle.Render(fmt.Sprintf("value %s (%.0f%%)", format.FormatValue(u.Value), u.Fraction*100)))
}

// AddResult logs a completed session.
func (l *LogsModel) AddResult(r orchestration.SessionResult) {
	l.add(logSuccessStyle.Render(fmt.Sprintf("completed at %s, %d values in %s",
		format.FormatValue(r.Final), r.Reported, format.FormatExecutionDuration(r.Wall))))
}

// AddError logs a failed operation.
func (l *LogsModel) AddError(op string, err error) {
	l.add(logErrorStyle.Render(fmt.Sprintf("%s failed: %v", op, err)))
}

// renderToHeight renders the panel at exactly h lines.
func (l LogsModel) renderToHeight(h int) string {
	vp := l.viewport
	vp.Height = max(h-3, 0)
	return panelStyle.
		Width(max(l.width-2, 0)).
		Height(max(h-2, 0)).
		Render(panelTitleStyle.Render(" Events ") + "\n" + vp.View())
}

// View renders the panel at its configured height.
func (l LogsModel) View() string {
	return l.renderToHeight(l.height)
}
