// Package sysmon samples host-wide CPU and memory usage for the dashboard.
package sysmon

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one host snapshot. Percentages are within [0, 100].
type Stats struct {
	CPUPercent float64
	MemPercent float64
	// Available is false when the platform reported nothing.
	Available bool
}

// Sample reads one snapshot. CPU usage is measured since the previous call,
// so the first sample of a process may report zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clampPercent(pcts[0])
		s.Available = true
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm != nil {
		s.MemPercent = clampPercent(vm.UsedPercent)
		s.Available = true
	}
	return s
}

// String renders the snapshot for a status line.
func (s Stats) String() string {
	if !s.Available {
		return "n/a"
	}
	return fmt.Sprintf("cpu %.1f%% mem %.1f%%", s.CPUPercent, s.MemPercent)
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
