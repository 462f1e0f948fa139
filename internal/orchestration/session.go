package orchestration

import (
	"context"
	"time"

	"github.com/agbru/easeplay/internal/clock"
	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/logging"
	"github.com/agbru/easeplay/internal/player"
	"github.com/agbru/easeplay/internal/scheduler"
)

// Session owns a controller and the loop it ticks on. Transitions are
// posted onto the loop and wait for the controller's answer, so they may be
// called from any goroutine.
type Session struct {
	loop    *scheduler.Loop
	ctrl    *player.Controller
	status  *StatusTracker
	tracing *tracingObserver
	logger  logging.Logger

	updates chan ProgressUpdate
	done    chan SessionResult

	// Loop-only state.
	startedAt time.Time
	reported  int
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	logger    logging.Logger
	clock     clock.Source
	observers []player.Observer
	buffer    int
}

// WithLogger sets the logger for the loop and the controller.
func WithLogger(l logging.Logger) SessionOption {
	return func(o *sessionOptions) { o.logger = l }
}

// WithClock replaces the monotonic clock.
func WithClock(c clock.Source) SessionOption {
	return func(o *sessionOptions) { o.clock = c }
}

// WithObserver adds a controller observer, such as metrics.Playback.
func WithObserver(obs player.Observer) SessionOption {
	return func(o *sessionOptions) { o.observers = append(o.observers, obs) }
}

// WithUpdateBuffer overrides UpdateBufferSize.
func WithUpdateBuffer(n int) SessionOption {
	return func(o *sessionOptions) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// NewSession configures a controller for cfg. The session does nothing
// until Run is started and a transition is requested.
func NewSession(cfg easing.Config, opts ...SessionOption) (*Session, error) {
	o := sessionOptions{logger: logging.Nop(), buffer: UpdateBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clock.NewMonotonic()
	}

	s := &Session{
		loop:    scheduler.NewLoop(scheduler.WithLogger(o.logger)),
		status:  NewStatusTracker(cfg.Start),
		tracing: newTracingObserver(),
		logger:  o.logger,
		updates: make(chan ProgressUpdate, o.buffer),
		done:    make(chan SessionResult, 1),
	}
	ctrlOpts := []player.Option{
		player.WithLogger(o.logger),
		player.WithObserver(s.status),
		player.WithObserver(s.tracing),
		player.WithObserver(player.NewLoggingObserver(o.logger)),
	}
	for _, obs := range o.observers {
		ctrlOpts = append(ctrlOpts, player.WithObserver(obs))
	}
	s.ctrl = player.New(s.loop, o.clock, ctrlOpts...)
	s.ctrl.SetProgressCallback(s.onProgress)
	s.ctrl.SetCompletionCallback(s.onComplete)

	if err := s.ctrl.Configure(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Run dispatches ticks until ctx ends, then closes the update channel. It
// must be called exactly once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.updates)
	return s.loop.Run(ctx)
}

// Updates delivers every reported value. Updates are dropped when the
// consumer lags by more than the buffer size.
func (s *Session) Updates() <-chan ProgressUpdate { return s.updates }

// Done delivers the result of each completed session. Only the oldest
// unread result is kept.
func (s *Session) Done() <-chan SessionResult { return s.done }

// Status returns the latest status snapshot.
func (s *Session) Status() Status { return s.status.Snapshot() }

// Start plays the segment forward from its configured start.
func (s *Session) Start(ctx context.Context) error {
	return s.transition(ctx, s.ctrl.Start)
}

// Continue resumes forward playback.
func (s *Session) Continue(ctx context.Context) error {
	return s.transition(ctx, s.ctrl.Continue)
}

// Reverse resumes playback towards the configured start.
func (s *Session) Reverse(ctx context.Context) error {
	return s.transition(ctx, s.ctrl.ReverseContinue)
}

// Stop pauses playback.
func (s *Session) Stop(ctx context.Context) error {
	return s.transition(ctx, func() error {
		s.ctrl.Stop()
		return nil
	})
}

// Reconfigure replaces the segment and curve. Running playback is
// cancelled.
func (s *Session) Reconfigure(ctx context.Context, cfg easing.Config) error {
	return s.transition(ctx, func() error {
		if err := s.ctrl.Configure(cfg); err != nil {
			return err
		}
		s.status.reset(cfg.Start)
		return nil
	})
}

// Value returns the controller's current value.
func (s *Session) Value(ctx context.Context) (int, error) {
	var v int
	err := s.loop.Do(ctx, func() { v = s.ctrl.CurrentValue() })
	return v, err
}

// Inspect runs fn on the loop with read access to the controller.
func (s *Session) Inspect(ctx context.Context, fn func(*player.Controller)) error {
	return s.loop.Do(ctx, func() { fn(s.ctrl) })
}

func (s *Session) transition(ctx context.Context, fn func() error) error {
	var err error
	if doErr := s.loop.Do(ctx, func() {
		s.tracing.setParent(ctx)
		s.startedAt = time.Now()
		s.reported = 0
		err = fn()
	}); doErr != nil {
		return doErr
	}
	return err
}

func (s *Session) onProgress(value int) {
	s.reported++
	select {
	case s.updates <- newProgressUpdate(s.ctrl, value):
	default:
	}
}

func (s *Session) onComplete() {
	seg := s.ctrl.Segment()
	rec := s.ctrl.Record()
	result := SessionResult{
		From:     seg.Start,
		To:       seg.End,
		Final:    seg.Current,
		Backward: rec.Backward,
		Reported: s.reported,
		Elapsed:  msToDuration(rec.ElapsedMs),
		Wall:     time.Since(s.startedAt),
		Factors:  s.ctrl.Factors(),
		Interval: s.ctrl.Interval(),
	}
	select {
	case s.done <- result:
	default:
		s.logger.Debug("completion result dropped, previous one unread")
	}
}
