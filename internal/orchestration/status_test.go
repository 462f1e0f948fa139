package orchestration

import (
	"testing"
	"time"

	"github.com/agbru/easeplay/internal/clock"
	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/player"
	"github.com/agbru/easeplay/internal/scheduler"
)

func TestStatusTracker_FollowsController(t *testing.T) {
	t.Parallel()
	tracker := NewStatusTracker(0)
	clk := clock.NewFake()
	sched := scheduler.NewManual(clk)
	c := player.New(sched, clk, player.WithObserver(tracker))
	c.SetProgressCallback(func(int) {})
	if err := c.Configure(easing.Config{Start: 0, End: 100, TotalMs: 1000}); err != nil {
		t.Fatal(err)
	}

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	sched.Advance(250 * time.Millisecond)
	st := tracker.Snapshot()
	if st.State != "playing-forward" || st.Value != 25 || st.ElapsedMs != 250 || st.TotalMs != 1000 {
		t.Errorf("mid-session status = %+v", st)
	}

	c.Stop()
	if st := tracker.Snapshot(); st.State != "idle" {
		t.Errorf("State after Stop = %q", st.State)
	}

	if err := c.Continue(); err != nil {
		t.Fatal(err)
	}
	sched.Advance(time.Second)
	st = tracker.Snapshot()
	if st.State != "completed" || st.Value != 100 || st.Sessions != 2 || st.Completions != 1 {
		t.Errorf("final status = %+v", st)
	}
}

func TestNewProgressUpdate(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake()
	sched := scheduler.NewManual(clk)
	c := player.New(sched, clk)
	var got ProgressUpdate
	c.SetProgressCallback(func(v int) { got = newProgressUpdate(c, v) })
	if err := c.Configure(easing.Config{Start: 100, End: 300, TotalMs: 2000}); err != nil {
		t.Fatal(err)
	}
	if err := c.ReverseContinue(); err != nil {
		t.Fatal(err)
	}
	sched.Advance(500 * time.Millisecond)

	if got.Value != 250 || !got.Backward {
		t.Fatalf("update = %+v", got)
	}
	if got.Fraction != 0.25 {
		t.Errorf("Fraction = %v, want 0.25", got.Fraction)
	}
	if got.Elapsed != 500*time.Millisecond || got.Remaining != 1500*time.Millisecond {
		t.Errorf("Elapsed = %v Remaining = %v", got.Elapsed, got.Remaining)
	}
}
