package orchestration

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/agbru/easeplay/internal/easing"
)

func newTestSession(t *testing.T, cfg easing.Config) *Session {
	t.Helper()
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

// TestPlay verifies that one-shot playback reaches the end of the segment
// in either direction.
func TestPlay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     easing.Config
		reverse bool
		final   int
	}{
		{"linear forward", easing.Config{Start: 0, End: 20, TotalMs: 40}, false, 20},
		{"curved forward", easing.Config{Start: 5, End: 25, TotalMs: 40, AccelerateRatio: 0.5, DecelerateRatio: 0.5}, false, 25},
		{"reverse from fresh", easing.Config{Start: 0, End: 20, TotalMs: 40}, true, 0},
		{"degenerate", easing.Config{Start: 42, End: 42}, false, 42},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := newTestSession(t, tc.cfg)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			res, err := Play(ctx, s, PlayOptions{Reverse: tc.reverse}, NullProgressReporter{}, io.Discard)
			if err != nil {
				t.Fatalf("Play() error = %v", err)
			}
			if res.Final != tc.final {
				t.Errorf("Final = %d, want %d", res.Final, tc.final)
			}
			if res.Backward != tc.reverse {
				t.Errorf("Backward = %v, want %v", res.Backward, tc.reverse)
			}
			if got := s.Status().Completions; got != 1 && tc.cfg.Start != tc.cfg.End {
				t.Errorf("Completions = %d, want 1", got)
			}
		})
	}
}

func TestPlay_ReportsProgress(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, easing.Config{Start: 0, End: 10, TotalMs: 50})

	var (
		mu      sync.Mutex
		updates []ProgressUpdate
	)
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan ProgressUpdate, _ io.Writer) {
		defer wg.Done()
		for u := range ch {
			mu.Lock()
			updates = append(updates, u)
			mu.Unlock()
		}
	})

	res, err := Play(context.Background(), s, PlayOptions{}, reporter, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(updates) == 0 || len(updates) != res.Reported {
		t.Fatalf("received %d updates, result reports %d", len(updates), res.Reported)
	}
	last := updates[len(updates)-1]
	if last.Value != 10 || last.Fraction != 1 || last.Remaining != 0 {
		t.Errorf("last update = %+v", last)
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].Value <= updates[i-1].Value {
			t.Errorf("updates not increasing: %d then %d", updates[i-1].Value, updates[i].Value)
		}
	}
}

func TestPlay_Timeout(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, easing.Config{Start: 0, End: 10, TotalMs: 60_000})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := Play(ctx, s, PlayOptions{}, NullProgressReporter{}, io.Discard)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Play() error = %v, want DeadlineExceeded", err)
	}
}

type failingService struct{ err error }

func (f failingService) Run(context.Context) error { return f.err }

func TestPlay_ServiceFailureStopsSession(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, easing.Config{Start: 0, End: 10, TotalMs: 60_000})
	boom := errors.New("listen failed")

	_, err := Play(context.Background(), s, PlayOptions{Services: []Runner{failingService{boom}}}, NullProgressReporter{}, io.Discard)
	if !errors.Is(err, boom) {
		t.Fatalf("Play() error = %v, want %v", err, boom)
	}
}

// TestPlay_SlowReporterDoesNotBlock checks that a reporter which stops
// reading cannot stall the tick loop.
func TestPlay_SlowReporterDoesNotBlock(t *testing.T) {
	t.Parallel()
	s, err := NewSession(easing.Config{Start: 0, End: 500, TotalMs: 50}, WithUpdateBuffer(2))
	if err != nil {
		t.Fatal(err)
	}
	release := make(chan struct{})
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan ProgressUpdate, _ io.Writer) {
		defer wg.Done()
		<-release
		DrainChannel(ch)
	})

	done := make(chan error, 1)
	go func() {
		_, err := Play(context.Background(), s, PlayOptions{}, reporter, io.Discard)
		done <- err
	}()

	// Completion must be reached while the reporter is still blocked.
	deadline := time.After(5 * time.Second)
	for s.Status().Completions == 0 {
		select {
		case <-deadline:
			t.Fatal("playback stalled behind the reporter")
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
