package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/agbru/easeplay/internal/logging"
)

// DefaultQueueSize bounds the number of pending callbacks. Tickers drop
// beats rather than queue them when the loop falls behind, so the queue
// only needs to absorb bursts of Post calls.
const DefaultQueueSize = 64

// Loop is a Scheduler that runs every callback on the goroutine executing
// Run, in arrival order. Code driven by a Loop therefore needs no locking
// as long as it is only touched from callbacks and Posted functions.
type Loop struct {
	mu     sync.Mutex
	timers map[Token]*registration

	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
	logger   logging.Logger
}

type registration struct {
	stop chan struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(l logging.Logger) LoopOption {
	return func(loop *Loop) { loop.logger = l }
}

// WithQueueSize overrides DefaultQueueSize.
func WithQueueSize(n int) LoopOption {
	return func(loop *Loop) {
		if n > 0 {
			loop.queue = make(chan func(), n)
		}
	}
}

// NewLoop creates a stopped loop. Callbacks are queued until Run starts.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		timers: make(map[Token]*registration),
		queue:  make(chan func(), DefaultQueueSize),
		done:   make(chan struct{}),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Schedule implements Scheduler.
func (l *Loop) Schedule(tok Token, fn func(), interval time.Duration, times int) {
	if interval <= 0 {
		interval = time.Millisecond
	}
	reg := &registration{stop: make(chan struct{})}

	l.mu.Lock()
	if prev, ok := l.timers[tok]; ok {
		close(prev.stop)
	}
	l.timers[tok] = reg
	l.mu.Unlock()

	go l.drive(tok, reg, fn, interval, times)
}

// Cancel implements Scheduler.
func (l *Loop) Cancel(tok Token) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if reg, ok := l.timers[tok]; ok {
		close(reg.stop)
		delete(l.timers, tok)
	}
}

// Active returns the number of live registrations.
func (l *Loop) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (l *Loop) drive(tok Token, reg *registration, fn func(), interval time.Duration, times int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fired := 0
	for {
		select {
		case <-reg.stop:
			return
		case <-l.done:
			return
		case <-ticker.C:
		}

		fired++
		last := times > 0 && fired >= times
		job := func() {
			if l.claim(tok, reg, last) {
				fn()
			}
		}
		select {
		case l.queue <- job:
		case <-reg.stop:
			return
		case <-l.done:
			return
		}
		if last {
			return
		}
	}
}

// claim reports whether reg is still the live registration for tok, and
// drops it when this is its final firing.
func (l *Loop) claim(tok Token, reg *registration, last bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timers[tok] != reg {
		return false
	}
	if last {
		delete(l.timers, tok)
	}
	return true
}

// Post queues fn to run on the loop goroutine. It returns false once the
// loop has stopped. Post must not be called from a loop callback when the
// queue may be full.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Run dispatches callbacks until ctx is done or Stop is called. Pending
// registrations are cancelled on return.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("scheduler loop started")
	defer l.Stop()
	for {
		select {
		case job := <-l.queue:
			job()
		case <-ctx.Done():
			l.logger.Debug("scheduler loop stopped", logging.String("reason", ctx.Err().Error()))
			return nil
		case <-l.done:
			l.logger.Debug("scheduler loop stopped", logging.String("reason", "stop"))
			return nil
		}
	}
}

// Stop terminates the loop and every registration. It is idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		l.mu.Lock()
		for tok, reg := range l.timers {
			close(reg.stop)
			delete(l.timers, tok)
		}
		l.mu.Unlock()
	})
}
