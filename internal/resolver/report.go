package resolver

import (
	"time"

	"github.com/google/uuid"

	"github.com/calrowan/depwave/internal/graph"
	"github.com/calrowan/depwave/internal/ready"
	"github.com/calrowan/depwave/internal/schedule"
)

// Report is a full resolution of one snapshot: the wave plan, readiness
// partition, parallel-safety set, and cycle diagnostics, tagged so
// downstream tooling can correlate output with a specific resolution run.
type Report struct {
	ID          string                   `json:"id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Order       *schedule.ExecutionOrder `json:"order"`
	Stats       schedule.WaveStats       `json:"stats"`
	Ready       *ready.ReadyIssues       `json:"ready"`
	ParallelSet *ready.ParallelSet       `json:"parallel_set"`
	Cycles      [][]string               `json:"cycles,omitempty"`
}

// Report resolves everything from a single snapshot fetch. Scheduling runs
// over unfinished issues only; readiness classification sees every status
// so closed dependencies count as satisfied.
func (r *Resolver) Report() *Report {
	issues := r.snapshotAll()

	var open []graph.Issue
	for _, iss := range issues {
		if iss.Status == graph.StatusOpen || iss.Status == graph.StatusInProgress {
			open = append(open, iss)
		}
	}

	g := graph.Build(open)
	order := schedule.ComputeExecutionOrder(g)
	classified := ready.Classify(issues)

	rep := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		Order:       order,
		Stats:       schedule.Stats(order),
		Ready:       classified,
		ParallelSet: ready.ComputeParallelExecutionSet(classified.Ready),
	}
	if len(order.Unresolved) > 0 {
		rep.Cycles = g.DetectCycles()
	}
	return rep
}
