package infer

import (
	"fmt"

	"github.com/calrowan/depwave/internal/graph"
)

// ValidateEdges filters inferred edges against a snapshot. Edges naming
// unknown ids or forming self-dependencies are dropped, then the survivors
// are applied greedily: any edge that would close a cycle over the
// snapshot's existing dependencies is skipped. Returns the accepted edges
// and a human-readable reason per rejection.
func ValidateEdges(edges []DepEdge, issues []graph.Issue) (accepted []DepEdge, rejected []string) {
	known := make(map[string]bool, len(issues))
	depsByID := make(map[string][]string, len(issues))
	for _, iss := range issues {
		known[iss.ID] = true
		depsByID[iss.ID] = append([]string(nil), iss.DependsOn...)
	}

	for _, e := range edges {
		switch {
		case !known[e.IssueID]:
			rejected = append(rejected, fmt.Sprintf("unknown issue_id %s", e.IssueID))
			continue
		case !known[e.DependsOnID]:
			rejected = append(rejected, fmt.Sprintf("unknown depends_on_id %s", e.DependsOnID))
			continue
		case e.IssueID == e.DependsOnID:
			rejected = append(rejected, fmt.Sprintf("self-dependency on %s", e.IssueID))
			continue
		}

		// Tentatively add the edge and cycle-check the whole graph.
		depsByID[e.IssueID] = append(depsByID[e.IssueID], e.DependsOnID)
		if buildCandidate(issues, depsByID).HasCycle() {
			depsByID[e.IssueID] = depsByID[e.IssueID][:len(depsByID[e.IssueID])-1]
			rejected = append(rejected, fmt.Sprintf("would create cycle: %s -> %s", e.IssueID, e.DependsOnID))
			continue
		}
		accepted = append(accepted, e)
	}

	return accepted, rejected
}

func buildCandidate(issues []graph.Issue, depsByID map[string][]string) *graph.DependencyGraph {
	candidate := make([]graph.Issue, len(issues))
	for i, iss := range issues {
		iss.DependsOn = depsByID[iss.ID]
		candidate[i] = iss
	}
	return graph.Build(candidate)
}
