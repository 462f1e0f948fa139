package player

import (
	"fmt"
	"math"
	"time"

	"github.com/agbru/easeplay/internal/clock"
	"github.com/agbru/easeplay/internal/easing"
	apperrors "github.com/agbru/easeplay/internal/errors"
	"github.com/agbru/easeplay/internal/logging"
	"github.com/agbru/easeplay/internal/scheduler"
)

// ProgressFunc receives every new value of the segment.
type ProgressFunc func(value int)

// CompletionFunc is invoked once per session when the end is reached.
type CompletionFunc func()

// Controller plays one configured segment. The zero value is not usable;
// create controllers with New.
type Controller struct {
	strategy easing.Strategy
	sched    scheduler.Scheduler
	clock    clock.Source
	logger   logging.Logger
	subject  *Subject

	cfg        easing.Config
	configured bool
	factors    easing.Factors
	interval   time.Duration
	segment    Segment
	record     Record
	state      State

	token    scheduler.Token
	lastTick int64

	onProgress ProgressFunc
	onComplete CompletionFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithStrategy replaces the default easing.ThreePhase strategy.
func WithStrategy(s easing.Strategy) Option {
	return func(c *Controller) { c.strategy = s }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.subject.Register(o) }
}

// New returns an unconfigured controller ticking on sched and sampling clk.
func New(sched scheduler.Scheduler, clk clock.Source, opts ...Option) *Controller {
	c := &Controller{
		strategy: easing.ThreePhase{},
		sched:    sched,
		clock:    clk,
		logger:   logging.Nop(),
		subject:  NewSubject(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observers returns the subject observers can be registered with.
func (c *Controller) Observers() *Subject { return c.subject }

// SetProgressCallback installs the progress callback. It is required
// before any play transition.
func (c *Controller) SetProgressCallback(fn ProgressFunc) { c.onProgress = fn }

// SetCompletionCallback installs the optional completion callback.
func (c *Controller) SetCompletionCallback(fn CompletionFunc) { c.onComplete = fn }

// Configure validates cfg and resets the controller to Idle at the start
// of the new segment. Any running session is cancelled without completing.
// On error the previous configuration is kept.
func (c *Controller) Configure(cfg easing.Config) error {
	factors := easing.Factors{Start: cfg.Start, End: cfg.End}
	if !cfg.Degenerate() {
		f, err := c.strategy.Derive(cfg)
		if err != nil {
			return fmt.Errorf("configure: %w", err)
		}
		factors = f
	}

	c.cancel()
	c.cfg = cfg
	c.configured = true
	c.factors = factors
	c.interval = easing.TickInterval(factors)
	c.segment = Segment{Start: cfg.Start, End: cfg.End, Current: cfg.Start}
	c.record = Record{FirstRun: true}
	c.setState(Idle)
	return nil
}

// Start plays the segment forward from the configured start.
func (c *Controller) Start() error {
	if err := c.ready("start"); err != nil {
		return err
	}
	c.cancel()
	c.segment = Segment{Start: c.cfg.Start, End: c.cfg.End, Current: c.cfg.Start}
	c.record.ElapsedMs = 0
	c.record.Backward = false
	return c.play("start")
}

// Continue resumes forward playback without resetting elapsed time. When
// the controller was playing backward the segment is reversed first.
func (c *Controller) Continue() error {
	if err := c.ready("continue"); err != nil {
		return err
	}
	c.cancel()
	if c.record.Backward {
		c.reverseAllValue()
	}
	c.record.Backward = false
	err := c.play("continue")
	c.record.FirstRun = false
	return err
}

// ReverseContinue resumes playback towards the configured start. Before
// the first Continue or ReverseContinue it plays the whole segment
// backward from the end.
func (c *Controller) ReverseContinue() error {
	if err := c.ready("reverse"); err != nil {
		return err
	}
	c.cancel()
	if !c.record.Backward {
		c.reverseAllValue()
	}
	if c.record.FirstRun {
		c.record.ElapsedMs = 0
	}
	c.record.Backward = true
	err := c.play("reverse")
	c.record.FirstRun = false
	return err
}

// Stop cancels the running session without firing completion. Elapsed
// time and direction are kept so Continue or ReverseContinue can resume.
func (c *Controller) Stop() {
	if !c.record.Playing {
		return
	}
	c.cancel()
	c.record.Playing = false
	c.setState(Idle)
	c.subject.SessionStopped(c.record.ElapsedMs)
}

// CurrentValue returns the last value reported to the progress callback.
func (c *Controller) CurrentValue() int { return c.segment.Current }

// Playing reports whether ticks are registered.
func (c *Controller) Playing() bool { return c.record.Playing }

// State returns the playback state.
func (c *Controller) State() State { return c.state }

// Elapsed returns the time played in the current direction.
func (c *Controller) Elapsed() time.Duration {
	return time.Duration(c.record.ElapsedMs * float64(time.Millisecond))
}

// Record returns a copy of the playback position.
func (c *Controller) Record() Record { return c.record }

// Factors returns the factors of the current (or last) session.
func (c *Controller) Factors() easing.Factors { return c.factors }

// Segment returns the current segment.
func (c *Controller) Segment() Segment { return c.segment }

// Interval returns the tick period of the current session.
func (c *Controller) Interval() time.Duration { return c.interval }

func (c *Controller) ready(op string) error {
	if !c.configured {
		return apperrors.NewContractError(op, apperrors.ErrNotConfigured)
	}
	if c.onProgress == nil {
		return apperrors.NewContractError(op, apperrors.ErrMissingProgressCallback)
	}
	return nil
}

// play derives the factors for the current segment, registers the tick
// and runs the first tick synchronously.
func (c *Controller) play(op string) error {
	c.record.Playing = true
	c.lastTick = c.clock.Now()

	if c.segment.Start == c.segment.End {
		c.factors = easing.Factors{Start: c.segment.Start, End: c.segment.End}
		c.complete()
		return nil
	}

	cfg := c.cfg
	cfg.Start, cfg.End = c.segment.Start, c.segment.End
	f, err := c.strategy.Derive(cfg)
	if err != nil {
		c.record.Playing = false
		c.setState(Idle)
		return fmt.Errorf("%s: %w", op, err)
	}
	c.factors = f
	c.interval = easing.TickInterval(f)
	c.record.ElapsedMs = math.Min(c.record.ElapsedMs, f.TotalMs)

	if c.record.Backward {
		c.setState(PlayingBackward)
	} else {
		c.setState(PlayingForward)
	}

	tok := c.token
	c.sched.Schedule(tok, func() { c.tick(tok) }, c.interval, scheduler.RepeatForever)
	c.subject.SessionStarted(c.state, f, c.interval)
	c.tick(tok)
	return nil
}

// tick advances elapsed time by the clock delta and reports the value.
func (c *Controller) tick(tok scheduler.Token) {
	if tok != c.token || !c.record.Playing {
		c.subject.TickDropped()
		return
	}
	if c.onProgress == nil {
		panic(apperrors.NewContractError("tick", apperrors.ErrMissingProgressCallback))
	}

	now := c.clock.Now()
	c.record.ElapsedMs += clock.ElapsedMillis(c.lastTick, now, c.clock.Frequency())
	c.lastTick = now
	if c.record.ElapsedMs > c.factors.TotalMs {
		c.record.ElapsedMs = c.factors.TotalMs
	}

	value := c.strategy.ValueAt(c.factors, c.record.ElapsedMs)
	if c.reachedEnd(value) {
		c.segment.Current = c.segment.End
		c.onProgress(c.segment.End)
		c.subject.ValueReported(c.segment.End, c.record.ElapsedMs)
		c.complete()
		return
	}
	if value != c.segment.Current {
		c.segment.Current = value
		c.onProgress(value)
		c.subject.ValueReported(value, c.record.ElapsedMs)
	}
}

func (c *Controller) reachedEnd(value int) bool {
	if c.segment.End > c.segment.Start {
		return value >= c.segment.End
	}
	return value <= c.segment.End
}

// complete ends the session. The tick is cancelled before the completion
// callback runs, so a callback that starts a new session is not undone.
func (c *Controller) complete() {
	c.cancel()
	c.record.Playing = false
	c.setState(Completed)
	c.subject.SessionCompleted(c.record.ElapsedMs)
	if c.onComplete != nil {
		c.onComplete()
	}
}

// cancel drops the active registration and issues a fresh token, so ticks
// already queued under the old one become no-ops.
func (c *Controller) cancel() {
	c.sched.Cancel(c.token)
	c.token++
}

// reverseAllValue swaps the segment endpoints and mirrors elapsed time
// onto the reversed curve.
func (c *Controller) reverseAllValue() {
	c.segment.reverse()
	c.record.ElapsedMs = math.Max(0, c.factors.TotalMs-c.record.ElapsedMs)
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("player transition",
		logging.String("from", c.state.String()),
		logging.String("to", s.String()),
		logging.Int("value", c.segment.Current),
		logging.Float64("elapsed_ms", c.record.ElapsedMs),
	)
	c.state = s
}
