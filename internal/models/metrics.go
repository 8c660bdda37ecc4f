package models

// SystemStats is the optional system sub-object of the metrics snapshot.
type SystemStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	ActiveThreads int     `json:"active_threads"`
	Uptime        string  `json:"uptime"`
}

// MetricsSnapshot holds aggregate keyword counts, recomputed on demand.
// Invariant: Total = Done + Pending + Processing + Failed + Skipped.
type MetricsSnapshot struct {
	Total      int          `json:"total"`
	Done       int          `json:"done"`
	Pending    int          `json:"pending"`
	Processing int          `json:"processing"`
	Failed     int          `json:"failed"`
	Skipped    int          `json:"skipped"`
	System     *SystemStats `json:"system,omitempty"`
}

// Consistent reports whether the counts satisfy the total identity.
func (m MetricsSnapshot) Consistent() bool {
	return m.Total == m.Done+m.Pending+m.Processing+m.Failed+m.Skipped
}
