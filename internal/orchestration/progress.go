package orchestration

import (
	"math"
	"time"

	"github.com/agbru/easeplay/internal/player"
)

// UpdateBufferSize is the default capacity of the update channel. Updates
// are dropped rather than blocking the tick goroutine when a reporter falls
// further behind than this.
const UpdateBufferSize = 256

// newProgressUpdate describes the controller's position after it reported
// value. It must run on the loop goroutine.
func newProgressUpdate(ctrl *player.Controller, value int) ProgressUpdate {
	seg := ctrl.Segment()
	f := ctrl.Factors()
	rec := ctrl.Record()

	fraction := 1.0
	if d := math.Abs(float64(seg.End - seg.Start)); d > 0 {
		fraction = math.Abs(float64(value-seg.Start)) / d
	}
	elapsed := msToDuration(rec.ElapsedMs)
	remaining := msToDuration(f.TotalMs) - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return ProgressUpdate{
		Value:     value,
		Fraction:  fraction,
		Elapsed:   elapsed,
		Remaining: remaining,
		Backward:  rec.Backward,
	}
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
