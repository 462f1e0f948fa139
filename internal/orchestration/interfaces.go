package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/easeplay/internal/easing"
)

// ProgressUpdate is one value delivered by the controller.
type ProgressUpdate struct {
	// Value is the reported value.
	Value int
	// Fraction is the progress along the current direction, in [0, 1].
	Fraction float64
	// Elapsed is the curve time played in the current direction.
	Elapsed time.Duration
	// Remaining is the curve time left before completion.
	Remaining time.Duration
	// Backward is set while playing towards the configured start.
	Backward bool
}

// SessionResult summarises a completed play session.
type SessionResult struct {
	From     int
	To       int
	Final    int
	Backward bool
	Reported int
	Elapsed  time.Duration
	Wall     time.Duration
	Factors  easing.Factors
	Interval time.Duration
}

// ProgressReporter displays value updates. Decoupling it keeps the
// orchestration layer free of terminal concerns.
type ProgressReporter interface {
	// DisplayProgress consumes updates until the channel is closed, then
	// calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, out io.Writer) {
	f(wg, progressChan, out)
}

// NullProgressReporter drains the channel without output. Used in quiet
// mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}

// ResultPresenter prints the outcome of a session.
type ResultPresenter interface {
	PresentResult(result SessionResult, verbose bool, out io.Writer)
}
