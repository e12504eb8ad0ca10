package graph

import "time"

// Status is the lifecycle state of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// IssueType categorizes an issue.
type IssueType string

const (
	TypeTask    IssueType = "task"
	TypeBug     IssueType = "bug"
	TypeFeature IssueType = "feature"
	TypeEpic    IssueType = "epic"
)

// Issue is a single unit of work from the issue store.
type Issue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      Status    `json:"status"`
	Priority    int       `json:"priority"`
	Type        IssueType `json:"issue_type"`
	Description string    `json:"description,omitempty"`
	DependsOn   []string  `json:"depends_on,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// DependencyGraph is an in-memory dependency graph over one issue snapshot.
// Edges map each issue to the ids it depends on, in declared order; entries
// may reference ids absent from Nodes (externally resolved dependencies).
// ReverseEdges only ever contain in-snapshot ids. The graph is built fresh
// per query and discarded after use.
type DependencyGraph struct {
	Nodes        map[string]*Issue
	Edges        map[string][]string
	ReverseEdges map[string][]string

	order   []string                   // node ids in snapshot insertion order
	edgeSet map[string]map[string]bool // O(1) membership mirror of Edges
}
