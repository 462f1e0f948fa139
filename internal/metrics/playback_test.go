package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/easeplay/internal/clock"
	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/player"
	"github.com/agbru/easeplay/internal/scheduler"
)

func TestPlayback_RecordsSession(t *testing.T) {
	t.Parallel()
	m := NewPlayback()

	clk := clock.NewFake()
	sched := scheduler.NewManual(clk)
	c := player.New(sched, clk, player.WithObserver(m))
	c.SetProgressCallback(func(int) {})
	if err := c.Configure(easing.Config{Start: 0, End: 50, TotalMs: 500}); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	sched.Advance(time.Second)

	if got := testutil.ToFloat64(m.sessions.WithLabelValues("forward")); got != 1 {
		t.Errorf("forward sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.completions); got != 1 {
		t.Errorf("completions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.values); got != 50 {
		t.Errorf("values reported = %v, want 50", got)
	}
	if got := testutil.ToFloat64(m.current); got != 50 {
		t.Errorf("current value = %v, want 50", got)
	}
	if got := testutil.ToFloat64(m.interval); got != 0.01 {
		t.Errorf("interval = %v, want 0.01", got)
	}
}

func TestPlayback_CountsStopsAndStaleTicks(t *testing.T) {
	t.Parallel()
	m := NewPlayback()

	m.SessionStarted(player.PlayingBackward, easing.Factors{}, time.Millisecond)
	m.TickDropped()
	m.TickDropped()
	m.SessionStopped(12)

	if got := testutil.ToFloat64(m.sessions.WithLabelValues("backward")); got != 1 {
		t.Errorf("backward sessions = %v", got)
	}
	if got := testutil.ToFloat64(m.staleTicks); got != 2 {
		t.Errorf("stale ticks = %v", got)
	}
	if got := testutil.ToFloat64(m.stops); got != 1 {
		t.Errorf("stops = %v", got)
	}
	if got := testutil.ToFloat64(m.elapsed); got != 12 {
		t.Errorf("elapsed = %v", got)
	}
}

func TestPlayback_RegistryGathers(t *testing.T) {
	t.Parallel()
	m := NewPlayback()
	m.ValueReported(3, 1)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"easeplay_values_reported_total", "easeplay_current_value", "go_goroutines"} {
		if !names[want] {
			t.Errorf("missing metric family %s", want)
		}
	}
}
