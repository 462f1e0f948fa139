package scheduler

import (
	"time"

	"github.com/agbru/easeplay/internal/clock"
)

// Manual is a deterministic Scheduler driven by Advance. Callbacks run
// synchronously on the goroutine calling Advance, in firing-time order.
// When constructed with a clock.Fake, the clock is moved to each firing
// time before the callback runs, so code under test observes consistent
// elapsed time. Manual is not safe for concurrent use.
type Manual struct {
	now   time.Duration
	clock *clock.Fake
	regs  map[Token]*manualReg
	seq   uint64

	// Scheduled counts Schedule calls, Cancelled counts Cancel calls that
	// removed a live registration.
	Scheduled int
	Cancelled int
}

type manualReg struct {
	fn        func()
	interval  time.Duration
	next      time.Duration
	remaining int
	seq       uint64
}

// NewManual creates a Manual at virtual time zero. clk may be nil.
func NewManual(clk *clock.Fake) *Manual {
	return &Manual{clock: clk, regs: make(map[Token]*manualReg)}
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(tok Token, fn func(), interval time.Duration, times int) {
	if interval <= 0 {
		interval = time.Millisecond
	}
	m.seq++
	m.Scheduled++
	m.regs[tok] = &manualReg{
		fn:        fn,
		interval:  interval,
		next:      m.now + interval,
		remaining: times,
		seq:       m.seq,
	}
}

// Cancel implements Scheduler.
func (m *Manual) Cancel(tok Token) {
	if _, ok := m.regs[tok]; ok {
		delete(m.regs, tok)
		m.Cancelled++
	}
}

// Active returns the number of live registrations.
func (m *Manual) Active() int { return len(m.regs) }

// Now returns the virtual time.
func (m *Manual) Now() time.Duration { return m.now }

// Advance moves virtual time forward by d, firing every callback that
// falls due. It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	target := m.now + d
	fired := 0
	for {
		tok, reg := m.nextDue(target)
		if reg == nil {
			break
		}
		m.moveTo(reg.next)
		reg.next += reg.interval
		if reg.remaining > 0 {
			reg.remaining--
			if reg.remaining == 0 {
				delete(m.regs, tok)
			}
		}
		fired++
		reg.fn()
	}
	m.moveTo(target)
	return fired
}

// RunUntilIdle advances one interval at a time until no registration is
// left or limit callbacks have run. It returns the number of callbacks run.
func (m *Manual) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit {
		_, reg := m.nextDue(-1)
		if reg == nil {
			return fired
		}
		fired += m.Advance(reg.next - m.now)
	}
	return fired
}

// nextDue returns the earliest registration due at or before target; a
// negative target means no bound.
func (m *Manual) nextDue(target time.Duration) (Token, *manualReg) {
	var (
		bestTok Token
		best    *manualReg
	)
	for tok, reg := range m.regs {
		if target >= 0 && reg.next > target {
			continue
		}
		if best == nil || reg.next < best.next || (reg.next == best.next && reg.seq < best.seq) {
			bestTok, best = tok, reg
		}
	}
	return bestTok, best
}

func (m *Manual) moveTo(t time.Duration) {
	if t <= m.now {
		return
	}
	if m.clock != nil {
		m.clock.Advance(t - m.now)
	}
	m.now = t
}
