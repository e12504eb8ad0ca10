package schedule

// ExecutionOrder is a safe parallel execution plan for one snapshot.
type ExecutionOrder struct {
	// Parallel is the ordered list of waves. Every issue in a wave has all
	// of its dependencies satisfied by earlier waves (or externally).
	Parallel [][]string `json:"parallel"`
	// Sequential is the flattened wave concatenation.
	Sequential []string `json:"sequential"`
	// CriticalPath is the longest dependency chain, dependency-first.
	// Empty when the graph did not fully resolve.
	CriticalPath []string `json:"critical_path"`
	// Unresolved holds ids that could not be placed in any wave. Non-empty
	// means the graph contains a cycle; run DetectCycles to diagnose.
	Unresolved []string `json:"unresolved,omitempty"`
}

// WaveStats summarizes the shape of an execution order.
type WaveStats struct {
	WaveCount  int `json:"wave_count"`
	MaxWidth   int `json:"max_width"`
	Scheduled  int `json:"scheduled"`
	Unresolved int `json:"unresolved"`
}
