package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/agbru/easeplay/internal/easing"
	"github.com/agbru/easeplay/internal/orchestration"
)

func newRunningSession(t *testing.T, cfg easing.Config) *orchestration.Session {
	t.Helper()
	s, err := orchestration.NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return s
}

func runREPL(t *testing.T, s *orchestration.Session, cfg easing.Config, input string) string {
	t.Helper()
	disableColors(t)
	r := NewREPL(s, REPLConfig{Curve: cfg, Timeout: 5 * time.Second})
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	r.Start(context.Background())
	return out.String()
}

func TestREPL_PlayToCompletion(t *testing.T) {
	cfg := easing.Config{Start: 0, End: 20, TotalMs: 40}
	s := newRunningSession(t, cfg)
	out := runREPL(t, s, cfg, "start\nwait\nvalue\nstatus\nexit\n")

	for _, want := range []string{"Started", "Final value:  20 (forward)", "Value: 20", "State:        completed", "Goodbye!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPL_ReverseFromFresh(t *testing.T) {
	cfg := easing.Config{Start: 0, End: 20, TotalMs: 40}
	s := newRunningSession(t, cfg)
	out := runREPL(t, s, cfg, "reverse\nwait\n")

	if !strings.Contains(out, "Final value:  0 (backward)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Error("EOF should end the session")
	}
}

func TestREPL_SetAndConfig(t *testing.T) {
	cfg := easing.Config{Start: 0, End: 20, TotalMs: 40}
	s := newRunningSession(t, cfg)
	out := runREPL(t, s, cfg, "set to 5\nset duration 10ms\nconfig\nvalue\nset accel 2\nset speed 3\nset to\nbogus\nq\n")

	for _, want := range []string{
		"to set to 5",
		"duration set to 10ms",
		"Segment:      0 → 5",
		"Duration:     10 ms",
		"Phases:       0 / 10 / 0 ms",
		"Tick:         2ms",
		"Value: 0",
		"Error: ",
		"unknown setting: speed",
		"Usage: set",
		"Unknown command: bogus",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPL_StopPauses(t *testing.T) {
	cfg := easing.Config{Start: 0, End: 1000, TotalMs: 5000}
	s := newRunningSession(t, cfg)
	out := runREPL(t, s, cfg, "start\nstop\nstatus\nexit\n")

	if !strings.Contains(out, "Stopped (state: idle)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestREPL_ContextCancel(t *testing.T) {
	cfg := easing.Config{Start: 0, End: 20, TotalMs: 40}
	s := newRunningSession(t, cfg)
	disableColors(t)

	r := NewREPL(s, REPLConfig{Curve: cfg})
	var out bytes.Buffer
	blocked, w := io.Pipe()
	defer w.Close()
	r.SetInput(blocked)
	r.SetOutput(&out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Start(ctx)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("REPL did not stop on cancellation")
	}
}

func TestApplySetting(t *testing.T) {
	t.Parallel()
	base := easing.Config{Start: 0, End: 10, TotalMs: 100}
	tests := []struct {
		key, value string
		check      func(easing.Config) bool
		wantErr    bool
	}{
		{"from", "-3", func(c easing.Config) bool { return c.Start == -3 }, false},
		{"duration", "250", func(c easing.Config) bool { return c.TotalMs == 250 }, false},
		{"duration", "1.5s", func(c easing.Config) bool { return c.TotalMs == 1500 }, false},
		{"max", "2s", func(c easing.Config) bool { return c.MaxTotalMs == 2000 }, false},
		{"rate", "0.5", func(c easing.Config) bool { return c.LinearRate == 0.5 }, false},
		{"decel", "0.25", func(c easing.Config) bool { return c.DecelerateRatio == 0.25 }, false},
		{"to", "x", nil, true},
		{"duration", "soon", nil, true},
		{"accel", "fast", nil, true},
	}
	for _, tt := range tests {
		got, err := applySetting(base, tt.key, tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("applySetting(%s, %s) expected an error", tt.key, tt.value)
			}
			continue
		}
		if err != nil || !tt.check(got) {
			t.Errorf("applySetting(%s, %s) = %+v, %v", tt.key, tt.value, got, err)
		}
	}
}
