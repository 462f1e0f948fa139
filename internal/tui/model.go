package tui

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/easeplay/internal/easing"
	apperrors "github.com/agbru/easeplay/internal/errors"
	"github.com/agbru/easeplay/internal/metrics"
	"github.com/agbru/easeplay/internal/orchestration"
	"github.com/agbru/easeplay/internal/sysmon"
)

// Controls is the part of orchestration.Session the dashboard drives.
type Controls interface {
	Start(ctx context.Context) error
	Continue(ctx context.Context) error
	Reverse(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() orchestration.Status
	Done() <-chan orchestration.SessionResult
}

var _ Controls = (*orchestration.Session)(nil)

// Options configures the dashboard.
type Options struct {
	// Curve is the session's configuration, used for labels and scaling.
	Curve easing.Config
	// Reverse starts with ReverseContinue instead of Start.
	Reverse bool
	Version string
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// logsWidth returns the width allocated to the logs panel.
func (l LayoutManager) logsWidth() int {
	return l.width * LogsPanelWidthPercent / 100
}

// rightWidth returns the width allocated to the right column (metrics + chart).
func (l LayoutManager) rightWidth() int {
	return l.width - l.logsWidth()
}

// metricsHeight returns the height allocated to the metrics panel.
func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

// chartHeight returns the height allocated to the chart panel.
func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Layout constants for the TUI dashboard.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 4
	LogsPanelWidthPercent = 40
	MetricsPanelHeight    = 6
	refreshInterval       = 250 * time.Millisecond
)

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	footer  FooterModel

	keymap KeyMap

	LayoutManager

	ctx      context.Context
	session  Controls
	memory   *metrics.MemoryCollector
	opts     Options
	ref      *programRef
	paused   bool
	exitCode int
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, session Controls, opts Options) Model {
	keys := DefaultKeyMap()
	logs := NewLogsModel()
	logs.AddCurve(opts.Curve)

	return Model{
		header:   NewHeaderModel(opts.Version, opts.Curve.Start, opts.Curve.End),
		logs:     logs,
		metrics:  NewMetricsModel(),
		chart:    NewChartModel(opts.Curve.Start, opts.Curve.End),
		footer:   NewFooterModel(keys),
		keymap:   keys,
		ctx:      ctx,
		session:  session,
		memory:   metrics.NewMemoryCollector(),
		opts:     opts,
		ref:      &programRef{},
		exitCode: apperrors.ExitSuccess,
	}
}

// Init plays the session once and starts the watchers.
func (m Model) Init() tea.Cmd {
	first, op := m.session.Start, "start"
	if m.opts.Reverse {
		first, op = m.session.Reverse, "reverse"
	}
	return tea.Batch(
		tickCmd(),
		transitionCmd(m.ctx, op, first),
		waitDoneCmd(m.ctx, m.session.Done()),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.chart.AddDataPoint(msg.Update)
			m.logs.AddProgress(msg.Update)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case TransitionMsg:
		m.logs.AddTransition(msg)
		m.footer.SetError(msg.Err != nil)
		if msg.Err == nil && msg.Op != "stop" {
			m.footer.SetDone(false)
			m.header.Reset()
		}
		m.metrics.UpdateStatus(m.session.Status())
		return m, nil

	case FinalResultMsg:
		m.logs.AddResult(msg.Result)
		m.header.SetDone()
		m.chart.SetDone(msg.Result.Wall)
		m.footer.SetDone(true)
		m.metrics.UpdateStatus(m.session.Status())
		return m, waitDoneCmd(m.ctx, m.session.Done())

	case TickMsg:
		if m.paused {
			return m, tickCmd()
		}
		m.metrics.UpdateStatus(m.session.Status())
		return m, tea.Batch(sampleMemStatsCmd(m.memory), sampleHostStatsCmd(m.ctx), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case HostStatsMsg:
		m.metrics.UpdateHostStats(msg)
		return m, nil

	case ContextCancelledMsg:
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Start):
		m.chart.Reset()
		return m, transitionCmd(m.ctx, "start", m.session.Start)

	case key.Matches(msg, m.keymap.Continue):
		return m, transitionCmd(m.ctx, "continue", m.session.Continue)

	case key.Matches(msg, m.keymap.Reverse):
		return m, transitionCmd(m.ctx, "reverse", m.session.Reverse)

	case key.Matches(msg, m.keymap.Stop):
		return m, transitionCmd(m.ctx, "stop", m.session.Stop)

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.logs.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	logs := m.logs.renderToHeight(lipgloss.Height(rightCol))
	body := lipgloss.JoinHorizontal(lipgloss.Top, logs, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.logs.SetSize(m.logsWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run is the public entry point for the TUI mode. The session's Run must
// already be dispatching; the dashboard returns when the user quits or ctx
// ends.
func Run(ctx context.Context, session *orchestration.Session, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, session, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	var wg sync.WaitGroup
	wg.Add(1)
	go (&TUIProgressReporter{ref: model.ref}).DisplayProgress(&wg, session.Updates(), io.Discard)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// transitionCmd runs a session transition off the UI goroutine.
func transitionCmd(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return TransitionMsg{Op: op, Err: fn(ctx)}
	}
}

// waitDoneCmd delivers the next completion result.
func waitDoneCmd(ctx context.Context, done <-chan orchestration.SessionResult) tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-done:
			return FinalResultMsg{Result: r}
		case <-ctx.Done():
			return nil
		}
	}
}

// tickCmd returns a command that sends a TickMsg after refreshInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats off the UI goroutine.
func sampleMemStatsCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg(mc.Snapshot())
	}
}

// sampleHostStatsCmd reads host CPU and memory usage off the UI goroutine.
func sampleHostStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		return HostStatsMsg(sysmon.Sample(ctx))
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
