package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/easeplay/internal/clock"
)

func TestManual_FiresAtInterval(t *testing.T) {
	t.Parallel()
	m := NewManual(nil)
	count := 0
	m.Schedule(1, func() { count++ }, 10*time.Millisecond, RepeatForever)

	assert.Equal(t, 0, m.Advance(9*time.Millisecond))
	assert.Equal(t, 1, m.Advance(time.Millisecond))
	assert.Equal(t, 3, m.Advance(30*time.Millisecond))
	assert.Equal(t, 4, count)
	assert.Equal(t, 40*time.Millisecond, m.Now())
}

func TestManual_LimitedTimes(t *testing.T) {
	t.Parallel()
	m := NewManual(nil)
	count := 0
	m.Schedule(1, func() { count++ }, time.Millisecond, 3)

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, m.Active())
}

func TestManual_CancelStopsFiring(t *testing.T) {
	t.Parallel()
	m := NewManual(nil)
	count := 0
	m.Schedule(7, func() { count++ }, time.Millisecond, RepeatForever)
	m.Advance(2 * time.Millisecond)
	m.Cancel(7)
	m.Cancel(7)
	m.Advance(5 * time.Millisecond)

	assert.Equal(t, 2, count)
	assert.Equal(t, 1, m.Cancelled)
}

func TestManual_CancelFromCallback(t *testing.T) {
	t.Parallel()
	m := NewManual(nil)
	count := 0
	m.Schedule(1, func() {
		count++
		if count == 2 {
			m.Cancel(1)
		}
	}, time.Millisecond, RepeatForever)

	assert.Equal(t, 2, m.Advance(10*time.Millisecond))
}

func TestManual_OrdersByDueTime(t *testing.T) {
	t.Parallel()
	m := NewManual(nil)
	var order []string
	m.Schedule(1, func() { order = append(order, "slow") }, 3*time.Millisecond, 1)
	m.Schedule(2, func() { order = append(order, "fast") }, 2*time.Millisecond, 1)

	m.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"fast", "slow"}, order)
}

func TestManual_AdvancesLinkedClock(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake()
	m := NewManual(clk)
	var seen []int64
	m.Schedule(1, func() { seen = append(seen, clk.Now()) }, 4*time.Millisecond, RepeatForever)

	m.Advance(10 * time.Millisecond)
	require.Len(t, seen, 2)
	assert.Equal(t, int64(4*time.Millisecond), seen[0])
	assert.Equal(t, int64(8*time.Millisecond), seen[1])
	assert.Equal(t, int64(10*time.Millisecond), clk.Now())
}

func TestManual_RunUntilIdle(t *testing.T) {
	t.Parallel()
	m := NewManual(nil)
	m.Schedule(1, func() {}, 5*time.Millisecond, 4)

	assert.Equal(t, 4, m.RunUntilIdle(100))
	assert.Equal(t, 20*time.Millisecond, m.Now())

	m.Schedule(2, func() {}, time.Millisecond, RepeatForever)
	assert.Equal(t, 10, m.RunUntilIdle(10))
}
