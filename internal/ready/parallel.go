package ready

import (
	"fmt"

	"github.com/calrowan/depwave/internal/graph"
)

// ParallelSet partitions currently-ready issues by parallel safety.
type ParallelSet struct {
	CanRunParallel    []string `json:"can_run_parallel"`
	MustRunSequential []string `json:"must_run_sequential"`
	Reasoning         string   `json:"reasoning"`
}

// ComputeParallelExecutionSet decides which ready issues are safe to run
// concurrently right now.
//
// Zero ready issues yields two empty lists; a single ready issue is routed
// to MustRunSequential. With two or more, any issue involved in a same-set
// dependency — it depends on another ready issue, or another ready issue
// depends on it — is serialized along with its counterpart. Upstream
// readiness producers don't all guarantee strict dependency closure, so
// this guards against a dependent and its dependency landing in the same
// set.
func ComputeParallelExecutionSet(readyIssues []graph.Issue) *ParallelSet {
	ps := &ParallelSet{}

	switch len(readyIssues) {
	case 0:
		ps.Reasoning = "no ready issues"
		return ps
	case 1:
		ps.MustRunSequential = []string{readyIssues[0].ID}
		ps.Reasoning = "single ready issue, no parallelism possible"
		return ps
	}

	inSet := make(map[string]bool, len(readyIssues))
	for _, iss := range readyIssues {
		inSet[iss.ID] = true
	}

	// An edge inside the ready set serializes both endpoints.
	serial := make(map[string]bool)
	for _, iss := range readyIssues {
		for _, dep := range iss.DependsOn {
			if inSet[dep] {
				serial[iss.ID] = true
				serial[dep] = true
			}
		}
	}

	for _, iss := range readyIssues {
		if serial[iss.ID] {
			ps.MustRunSequential = append(ps.MustRunSequential, iss.ID)
		} else {
			ps.CanRunParallel = append(ps.CanRunParallel, iss.ID)
		}
	}

	if len(ps.MustRunSequential) == 0 {
		ps.Reasoning = fmt.Sprintf("%d ready issues with no dependencies among them", len(readyIssues))
	} else {
		ps.Reasoning = fmt.Sprintf("%d of %d ready issues share dependency edges and must run sequentially",
			len(ps.MustRunSequential), len(readyIssues))
	}
	return ps
}
