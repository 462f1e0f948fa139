package player

import (
	"sync"
	"time"

	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/logging"
)

// Observer receives playback events. Methods are invoked on the tick
// goroutine and must return quickly.
type Observer interface {
	// SessionStarted fires when a play session registers its tick.
	SessionStarted(state State, f easing.Factors, interval time.Duration)
	// ValueReported fires for every value handed to the progress callback.
	ValueReported(value int, elapsedMs float64)
	// TickDropped fires when a tick from a superseded session arrives.
	TickDropped()
	// SessionCompleted fires when the end of the segment is reached.
	SessionCompleted(elapsedMs float64)
	// SessionStopped fires when Stop interrupts a running session.
	SessionStopped(elapsedMs float64)
}

// Subject fans playback events out to registered observers. Registration
// is safe from any goroutine; notification uses a snapshot so observers
// added during a notification see only later events.
type Subject struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewSubject returns an empty Subject.
func NewSubject() *Subject {
	return &Subject{}
}

// Register adds an observer. Nil observers are ignored.
func (s *Subject) Register(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Unregister removes the first occurrence of o.
func (s *Subject) Unregister(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered observers.
func (s *Subject) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

func (s *Subject) snapshot() []Observer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.observers
}

func (s *Subject) SessionStarted(state State, f easing.Factors, interval time.Duration) {
	for _, o := range s.snapshot() {
		o.SessionStarted(state, f, interval)
	}
}

func (s *Subject) ValueReported(value int, elapsedMs float64) {
	for _, o := range s.snapshot() {
		o.ValueReported(value, elapsedMs)
	}
}

func (s *Subject) TickDropped() {
	for _, o := range s.snapshot() {
		o.TickDropped()
	}
}

func (s *Subject) SessionCompleted(elapsedMs float64) {
	for _, o := range s.snapshot() {
		o.SessionCompleted(elapsedMs)
	}
}

func (s *Subject) SessionStopped(elapsedMs float64) {
	for _, o := range s.snapshot() {
		o.SessionStopped(elapsedMs)
	}
}

// NoOpObserver ignores every event.
type NoOpObserver struct{}

func (NoOpObserver) SessionStarted(State, easing.Factors, time.Duration) {}
func (NoOpObserver) ValueReported(int, float64)                         {}
func (NoOpObserver) TickDropped()                                       {}
func (NoOpObserver) SessionCompleted(float64)                           {}
func (NoOpObserver) SessionStopped(float64)                             {}

// LoggingObserver writes session boundaries at debug level. Individual
// values are not logged.
type LoggingObserver struct {
	logger logging.Logger
}

// NewLoggingObserver returns a LoggingObserver writing to logger.
func NewLoggingObserver(logger logging.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) SessionStarted(state State, f easing.Factors, interval time.Duration) {
	o.logger.Debug("session started",
		logging.String("state", state.String()),
		logging.Int("from", f.Start),
		logging.Int("to", f.End),
		logging.Float64("total_ms", f.TotalMs),
		logging.String("interval", interval.String()),
	)
}

func (o *LoggingObserver) ValueReported(int, float64) {}

func (o *LoggingObserver) TickDropped() {
	o.logger.Debug("stale tick dropped")
}

func (o *LoggingObserver) SessionCompleted(elapsedMs float64) {
	o.logger.Debug("session completed", logging.Float64("elapsed_ms", elapsedMs))
}

func (o *LoggingObserver) SessionStopped(elapsedMs float64) {
	o.logger.Debug("session stopped", logging.Float64("elapsed_ms", elapsedMs))
}
