package orchestration

import (
	"sync/atomic"
	"time"

	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/player"
)

// Status is a point-in-time view of a session, safe to read from any
// goroutine. It is the document served on /healthz.
type Status struct {
	State       string  `json:"state"`
	Value       int     `json:"value"`
	ElapsedMs   float64 `json:"elapsed_ms"`
	TotalMs     float64 `json:"total_ms"`
	Sessions    int     `json:"sessions"`
	Completions int     `json:"completions"`
	StaleTicks  int     `json:"stale_ticks"`
}

// StatusTracker is a player.Observer publishing a Status snapshot. Events
// arrive on the loop goroutine; Snapshot may be called from anywhere.
type StatusTracker struct {
	current atomic.Pointer[Status]
}

var _ player.Observer = (*StatusTracker)(nil)

// NewStatusTracker starts in the idle state at value.
func NewStatusTracker(value int) *StatusTracker {
	t := &StatusTracker{}
	t.current.Store(&Status{State: player.Idle.String(), Value: value})
	return t
}

// Snapshot returns the latest status.
func (t *StatusTracker) Snapshot() Status { return *t.current.Load() }

func (t *StatusTracker) update(fn func(*Status)) {
	next := *t.current.Load()
	fn(&next)
	t.current.Store(&next)
}

func (t *StatusTracker) SessionStarted(state player.State, f easing.Factors, _ time.Duration) {
	t.update(func(s *Status) {
		s.State = state.String()
		s.TotalMs = f.TotalMs
		s.Sessions++
	})
}

func (t *StatusTracker) ValueReported(value int, elapsedMs float64) {
	t.update(func(s *Status) {
		s.Value = value
		s.ElapsedMs = elapsedMs
	})
}

func (t *StatusTracker) TickDropped() {
	t.update(func(s *Status) { s.StaleTicks++ })
}

func (t *StatusTracker) SessionCompleted(elapsedMs float64) {
	t.update(func(s *Status) {
		s.State = player.Completed.String()
		s.ElapsedMs = elapsedMs
		s.Completions++
	})
}

func (t *StatusTracker) SessionStopped(elapsedMs float64) {
	t.update(func(s *Status) {
		s.State = player.Idle.String()
		s.ElapsedMs = elapsedMs
	})
}

// reset is used after Configure, which does not notify observers.
func (t *StatusTracker) reset(value int) {
	t.update(func(s *Status) {
		s.State = player.Idle.String()
		s.Value = value
		s.ElapsedMs = 0
		s.TotalMs = 0
	})
}
