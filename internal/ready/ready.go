// Package ready classifies issues by executability. Unlike the full graph
// algorithms, everything here works from issue status plus declared
// dependency lists, without building a DependencyGraph.
package ready

import (
	"fmt"

	"github.com/calrowan/depwave/internal/graph"
)

// BlockedIssue pairs an open issue with the dependency ids holding it back.
type BlockedIssue struct {
	Issue    graph.Issue `json:"issue"`
	Blockers []string    `json:"blockers"`
}

// ReadyIssues partitions a snapshot by executability.
type ReadyIssues struct {
	Ready      []graph.Issue  `json:"ready"`
	Blocked    []BlockedIssue `json:"blocked"`
	InProgress []graph.Issue  `json:"in_progress"`
}

// Classify partitions issues into ready, blocked, and in-progress.
//
// An issue is ready iff it is open and every declared dependency is either
// closed or absent from the snapshot (absent means externally resolved).
// An issue is blocked iff it is open and at least one dependency is present
// and not closed; the reported blockers are exactly that subset. Closed
// issues are ignored. Input order is preserved.
func Classify(issues []graph.Issue) *ReadyIssues {
	byID := indexByID(issues)
	out := &ReadyIssues{}

	for _, iss := range issues {
		switch iss.Status {
		case graph.StatusInProgress:
			out.InProgress = append(out.InProgress, iss)
		case graph.StatusOpen:
			var blockers []string
			for _, dep := range iss.DependsOn {
				target, known := byID[dep]
				if known && target.Status != graph.StatusClosed {
					blockers = append(blockers, dep)
				}
			}
			if len(blockers) > 0 {
				out.Blocked = append(out.Blocked, BlockedIssue{Issue: iss, Blockers: blockers})
			} else {
				out.Ready = append(out.Ready, iss)
			}
		}
	}

	return out
}

// Validation is the pre-flight result for executing one issue.
type Validation struct {
	CanExecute bool     `json:"can_execute"`
	Blockers   []string `json:"blockers,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// ValidateExecution checks whether a specific issue can be executed now.
// Blockers: issue missing from the snapshot, issue already closed, or any
// declared dependency not yet closed (reported with id and title). An issue
// already in progress is a warning, not a blocker.
func ValidateExecution(id string, issues []graph.Issue) *Validation {
	byID := indexByID(issues)
	v := &Validation{}

	iss, ok := byID[id]
	if !ok {
		v.Blockers = append(v.Blockers, fmt.Sprintf("issue %s not found", id))
		return v
	}

	if iss.Status == graph.StatusClosed {
		v.Blockers = append(v.Blockers, fmt.Sprintf("issue %s is already closed", id))
	}
	if iss.Status == graph.StatusInProgress {
		v.Warnings = append(v.Warnings, fmt.Sprintf("issue %s is already in progress", id))
	}

	for _, dep := range iss.DependsOn {
		target, known := byID[dep]
		if !known {
			continue // externally resolved
		}
		if target.Status != graph.StatusClosed {
			v.Blockers = append(v.Blockers, fmt.Sprintf("dependency not closed: %s (%s)", dep, target.Title))
		}
	}

	v.CanExecute = len(v.Blockers) == 0
	return v
}

func indexByID(issues []graph.Issue) map[string]graph.Issue {
	byID := make(map[string]graph.Issue, len(issues))
	for _, iss := range issues {
		byID[iss.ID] = iss
	}
	return byID
}
