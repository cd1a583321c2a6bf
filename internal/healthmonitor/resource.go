package healthmonitor

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/process"

	"mcpflow/internal/resilience"
	"mcpflow/pkg/logging"
)

const (
	memoryWarnPercent = 80.0
	memoryFailPercent = 90.0
)

// NewResourceProbe builds the process resource probe: process
// memory usage (warn above 80%, fail above 90%) plus a summary of every
// named resilience Guard's circuit state. Uses gopsutil rather than
// hand-rolling a /proc reader.
func NewResourceProbe(guards map[resilience.Endpoint]*resilience.Guard) func(ctx context.Context) (bool, string, error) {
	return func(ctx context.Context) (bool, string, error) {
		proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
		if err != nil {
			return false, "", fmt.Errorf("healthmonitor: read process handle: %w", err)
		}
		memPercent, err := proc.MemoryPercentWithContext(ctx)
		if err != nil {
			return false, "", fmt.Errorf("healthmonitor: read memory percent: %w", err)
		}
		cpuPercent, err := proc.CPUPercentWithContext(ctx)
		if err != nil {
			cpuPercent = 0
		}

		detail := fmt.Sprintf("mem=%.1f%% cpu=%.1f%% %s", memPercent, cpuPercent, breakerSummary(guards))

		if memPercent > memoryFailPercent {
			return false, detail, nil
		}
		if memPercent > memoryWarnPercent {
			logging.Warn("HealthMonitor", "process memory at %.1f%%, above warn threshold", memPercent)
		}
		return true, detail, nil
	}
}

func breakerSummary(guards map[resilience.Endpoint]*resilience.Guard) string {
	summary := ""
	for endpoint, g := range guards {
		status := g.Status(endpoint)
		summary += fmt.Sprintf("%s=%s ", endpoint, status.BreakerState)
	}
	return summary
}
