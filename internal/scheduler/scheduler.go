//go:generate mockgen -source=scheduler.go -destination=mocks/mock_scheduler.go -package=mocks

// Package scheduler provides the periodic timer service the playback
// controller registers its ticks with.
//
// Two implementations are provided: Loop dispatches real timers onto a
// single goroutine, and Manual advances virtual time synchronously for
// deterministic tests. Both honour the same contract: at most one
// registration per token, and a cancelled token never fires again.
package scheduler

import "time"

// RepeatForever keeps a registration firing until it is cancelled.
const RepeatForever = -1

// Token identifies one timer registration. Controllers issue a fresh token
// for every registration so callbacks from a superseded one can be told
// apart.
type Token uint64

// Scheduler invokes callbacks at a fixed interval.
type Scheduler interface {
	// Schedule registers fn to run every interval, times times (or until
	// cancelled when times is RepeatForever). Scheduling an already active
	// token replaces its registration.
	Schedule(tok Token, fn func(), interval time.Duration, times int)
	// Cancel removes the registration for tok. Unknown tokens are ignored.
	Cancel(tok Token)
}
