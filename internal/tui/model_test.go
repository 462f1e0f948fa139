package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/easeplay/internal/easing"
	apperrors "github.com/agbru/easeplay/internal/errors"
	"github.com/agbru/easeplay/internal/orchestration"
)

type fakeSession struct {
	mu     sync.Mutex
	calls  []string
	err    error
	status orchestration.Status
	done   chan orchestration.SessionResult
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		status: orchestration.Status{State: "idle"},
		done:   make(chan orchestration.SessionResult, 1),
	}
}

func (f *fakeSession) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.err
}

func (f *fakeSession) Start(context.Context) error    { return f.record("start") }
func (f *fakeSession) Continue(context.Context) error { return f.record("continue") }
func (f *fakeSession) Reverse(context.Context) error  { return f.record("reverse") }
func (f *fakeSession) Stop(context.Context) error     { return f.record("stop") }

func (f *fakeSession) Status() orchestration.Status { return f.status }

func (f *fakeSession) Done() <-chan orchestration.SessionResult { return f.done }

func (f *fakeSession) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func newTestModel(t *testing.T, s *fakeSession) Model {
	t.Helper()
	m := NewModel(context.Background(), s, Options{Curve: easing.Config{Start: 0, End: 100, TotalMs: 500}})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_KeysTriggerTransitions(t *testing.T) {
	s := newFakeSession()
	m := newTestModel(t, s)

	for _, tt := range []struct{ key, op string }{
		{"s", "start"}, {"c", "continue"}, {"r", "reverse"}, {"x", "stop"},
	} {
		_, cmd := m.Update(runes(tt.key))
		if cmd == nil {
			t.Fatalf("key %q returned no command", tt.key)
		}
		msg := cmd()
		tm, ok := msg.(TransitionMsg)
		if !ok || tm.Op != tt.op || tm.Err != nil {
			t.Errorf("key %q produced %#v", tt.key, msg)
		}
		if got := s.lastCall(); got != tt.op {
			t.Errorf("key %q called %q", tt.key, got)
		}
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(t, newFakeSession())
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q must quit")
	}
}

func TestModel_TransitionErrorShowsInFooter(t *testing.T) {
	m := newTestModel(t, newFakeSession())
	err := apperrors.NewContractError("start", apperrors.ErrMissingProgressCallback)
	updated, _ := m.Update(TransitionMsg{Op: "start", Err: err})
	view := updated.(Model).View()
	if !strings.Contains(view, "ERROR") || !strings.Contains(view, "start failed") {
		t.Errorf("view does not show the failure:\n%s", view)
	}
}

func TestModel_ProgressAndCompletion(t *testing.T) {
	s := newFakeSession()
	m := newTestModel(t, s)

	updated, _ := m.Update(ProgressMsg{Update: orchestration.ProgressUpdate{Value: 40, Fraction: 0.4}})
	m = updated.(Model)
	if m.chart.last.Value != 40 {
		t.Errorf("chart last = %d", m.chart.last.Value)
	}

	s.status = orchestration.Status{State: "completed", Value: 100, Completions: 1}
	updated, cmd := m.Update(FinalResultMsg{Result: orchestration.SessionResult{Final: 100, Reported: 50}})
	m = updated.(Model)
	if cmd == nil {
		t.Error("completion must re-arm the done watcher")
	}
	view := m.View()
	for _, want := range []string{"DONE", "completed at 100", "completed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_PauseFreezesChart(t *testing.T) {
	m := newTestModel(t, newFakeSession())
	updated, _ := m.Update(runes("p"))
	m = updated.(Model)
	updated, _ = m.Update(ProgressMsg{Update: orchestration.ProgressUpdate{Value: 10}})
	m = updated.(Model)
	if m.chart.values.Len() != 0 {
		t.Error("frozen view must ignore updates")
	}
	if !strings.Contains(m.View(), "FROZEN") {
		t.Error("footer must show the frozen state")
	}
}

func TestModel_ContextCancelled(t *testing.T) {
	m := newTestModel(t, newFakeSession())
	updated, cmd := m.Update(ContextCancelledMsg{Err: context.Canceled})
	if updated.(Model).exitCode != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d", updated.(Model).exitCode)
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("cancellation must quit")
	}
}

func TestModel_InitStartsInConfiguredDirection(t *testing.T) {
	s := newFakeSession()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewModel(ctx, s, Options{Curve: easing.Config{Start: 0, End: 10, TotalMs: 50}, Reverse: true})

	msg := transitionCmd(ctx, "reverse", m.session.Reverse)()
	if tm := msg.(TransitionMsg); tm.Op != "reverse" || s.lastCall() != "reverse" {
		t.Errorf("got %#v, last call %q", tm, s.lastCall())
	}
	if m.Init() == nil {
		t.Error("Init must return commands")
	}
}

func TestWaitDoneCmd(t *testing.T) {
	done := make(chan orchestration.SessionResult, 1)
	done <- orchestration.SessionResult{Final: 7}
	msg := waitDoneCmd(context.Background(), done)()
	if fr, ok := msg.(FinalResultMsg); !ok || fr.Result.Final != 7 {
		t.Errorf("got %#v", msg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if msg := waitDoneCmd(ctx, make(chan orchestration.SessionResult))(); msg != nil {
		t.Errorf("cancelled wait returned %#v", msg)
	}
}

func TestTransitionCmd_PropagatesError(t *testing.T) {
	s := newFakeSession()
	s.err = errors.New("boom")
	msg := transitionCmd(context.Background(), "stop", s.Stop)().(TransitionMsg)
	if msg.Err == nil || msg.Op != "stop" {
		t.Errorf("got %#v", msg)
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := NewModel(context.Background(), newFakeSession(), Options{})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}
