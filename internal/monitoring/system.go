// Package monitoring reports process-level resource usage for the metrics
// endpoint.
package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/jonesrussell/mapscraper/internal/models"
)

const percentMultiplier = 100

// Monitor samples runtime memory and goroutine counts. CPU usage is
// approximated by the runtime's GC CPU fraction; per-process CPU
// accounting would need OS-specific counters.
type Monitor struct {
	mu      sync.RWMutex
	started time.Time
}

// NewMonitor creates a monitor anchored at the current time.
func NewMonitor() *Monitor {
	return &Monitor{started: time.Now()}
}

// Snapshot returns current system stats for the metrics payload.
func (m *Monitor) Snapshot() *models.SystemStats {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	m.mu.RLock()
	started := m.started
	m.mu.RUnlock()

	memoryPercent := 0.0
	if stats.Sys > 0 {
		memoryPercent = float64(stats.HeapInuse) / float64(stats.Sys) * percentMultiplier
	}

	return &models.SystemStats{
		CPUPercent:    stats.GCCPUFraction * percentMultiplier,
		MemoryPercent: memoryPercent,
		ActiveThreads: runtime.NumGoroutine(),
		Uptime:        time.Since(started).Round(time.Second).String(),
	}
}
