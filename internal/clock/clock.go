// Package clock wraps the monotonic high-resolution clock the playback
// engine samples on every tick. Production code uses Monotonic; tests inject
// a Fake and advance it explicitly.
package clock

import (
	"sync"
	"time"
)

// Source is a monotonic tick counter.
type Source interface {
	// Now returns the current tick count.
	Now() int64
	// Frequency returns the number of ticks per second.
	Frequency() int64
}

// ElapsedMillis converts the tick delta between two samples of a source
// running at freq ticks per second into milliseconds.
func ElapsedMillis(from, to, freq int64) float64 {
	if freq <= 0 {
		return 0
	}
	return float64(to-from) * 1000 / float64(freq)
}

// Monotonic reads the runtime's monotonic clock with nanosecond ticks.
type Monotonic struct {
	origin time.Time
}

// NewMonotonic returns a Monotonic whose tick zero is the moment of creation.
func NewMonotonic() *Monotonic {
	return &Monotonic{origin: time.Now()}
}

// Now returns nanoseconds since the clock was created. time.Since uses the
// monotonic reading, so wall-clock adjustments do not leak in.
func (m *Monotonic) Now() int64 { return int64(time.Since(m.origin)) }

// Frequency returns 1e9 (nanosecond resolution).
func (m *Monotonic) Frequency() int64 { return int64(time.Second) }

// Fake is a manually advanced Source for tests.
type Fake struct {
	mu    sync.Mutex
	ticks int64
	freq  int64
}

// NewFake returns a Fake at tick zero with nanosecond frequency, so
// Advance maps one-to-one onto time.Duration.
func NewFake() *Fake {
	return &Fake{freq: int64(time.Second)}
}

// NewFakeWithFrequency returns a Fake reporting the given frequency.
func NewFakeWithFrequency(freq int64) *Fake {
	return &Fake{freq: freq}
}

// Now returns the current fake tick count.
func (f *Fake) Now() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticks
}

// Frequency returns the configured frequency.
func (f *Fake) Frequency() int64 { return f.freq }

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.ticks += int64(float64(d) * float64(f.freq) / float64(time.Second))
	f.mu.Unlock()
}

// AdvanceTicks moves the clock forward by n raw ticks.
func (f *Fake) AdvanceTicks(n int64) {
	f.mu.Lock()
	f.ticks += n
	f.mu.Unlock()
}
