package tui

import (
	"time"

	"github.com/agbru/easeplay/internal/metrics"
	"github.com/agbru/easeplay/internal/orchestration"
	"github.com/agbru/easeplay/internal/sysmon"
)

// ProgressMsg carries one reported value.
type ProgressMsg struct {
	Update orchestration.ProgressUpdate
}

// ProgressDoneMsg is sent once the update channel has closed.
type ProgressDoneMsg struct{}

// FinalResultMsg carries a completion result.
type FinalResultMsg struct {
	Result orchestration.SessionResult
}

// TransitionMsg reports the outcome of a key-triggered transition.
type TransitionMsg struct {
	Op  string
	Err error
}

// TickMsg drives the periodic refresh.
type TickMsg time.Time

// MemStatsMsg carries a memory sample.
type MemStatsMsg metrics.MemorySnapshot

// HostStatsMsg carries a host-wide CPU and memory sample.
type HostStatsMsg sysmon.Stats

// ContextCancelledMsg is sent when the parent context ends.
type ContextCancelledMsg struct {
	Err error
}
