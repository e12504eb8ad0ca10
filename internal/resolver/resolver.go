// Package resolver ties the pure dependency algorithms to the external
// issue store. Each operation fetches a fresh snapshot, builds a graph,
// computes its result, and discards the graph; no graph data survives
// between calls.
package resolver

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/calrowan/depwave/internal/bd"
	"github.com/calrowan/depwave/internal/graph"
	"github.com/calrowan/depwave/internal/ready"
	"github.com/calrowan/depwave/internal/schedule"
)

// Issue lookup errors surfaced to the orchestration layer.
var (
	ErrNotFound      = errors.New("issue not found")
	ErrAlreadyClosed = errors.New("issue already closed")
)

// Store is the narrow issue-store interface the resolver consumes. It is
// implemented by *bd.Client and by in-memory fakes in tests.
type Store interface {
	ListOpen() ([]graph.Issue, error)
	ListAll() ([]graph.Issue, error)
	Show(id string) (*graph.Issue, error)
	Deps(id string) ([]string, error)
	AddDep(issueID, dependsOnID string) error
	RemoveDep(issueID, dependsOnID string) error
}

// Resolver answers execution-order questions for one working directory.
// It holds the store handle and nothing else.
type Resolver struct {
	store Store
}

// New creates a Resolver over the given store.
func New(store Store) *Resolver {
	return &Resolver{store: store}
}

var (
	cacheMu sync.Mutex
	cache   = make(map[string]*Resolver)
)

// For returns the cached Resolver for a working directory, creating one
// with the given store on first use. The cache holds resolver instances
// only, never graph or snapshot data.
func For(dir string, store Store) *Resolver {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if r, ok := cache[dir]; ok {
		return r
	}
	r := New(store)
	cache[dir] = r
	return r
}

// snapshotOpen fetches open issues with their dependency lists. A store
// failure degrades to an empty snapshot with a logged warning; the pure
// algorithms must never be corrupted or blocked by store trouble.
func (r *Resolver) snapshotOpen() []graph.Issue {
	issues, err := r.store.ListOpen()
	if err != nil {
		log.Printf("warning: issue store unavailable, using empty snapshot: %v", err)
		return nil
	}
	return r.fillDeps(issues)
}

// snapshotAll is snapshotOpen over every status, used where closed
// dependencies must be visible.
func (r *Resolver) snapshotAll() []graph.Issue {
	issues, err := r.store.ListAll()
	if err != nil {
		log.Printf("warning: issue store unavailable, using empty snapshot: %v", err)
		return nil
	}
	return r.fillDeps(issues)
}

func (r *Resolver) fillDeps(issues []graph.Issue) []graph.Issue {
	if c, ok := r.store.(*bd.Client); ok {
		return c.FetchDependsOn(issues)
	}
	for i := range issues {
		if issues[i].DependsOn != nil {
			continue
		}
		deps, err := r.store.Deps(issues[i].ID)
		if err != nil {
			log.Printf("warning: failed to fetch deps for %s: %v", issues[i].ID, err)
			continue
		}
		issues[i].DependsOn = deps
	}
	return issues
}

// ExecutionOrder computes the wave plan for the current open-issue snapshot.
func (r *Resolver) ExecutionOrder() *schedule.ExecutionOrder {
	g := graph.Build(r.snapshotOpen())
	return schedule.ComputeExecutionOrder(g)
}

// CriticalPath returns the longest dependency chain for the current
// snapshot. Fails with *schedule.CycleError on a cyclic graph.
func (r *Resolver) CriticalPath() ([]string, error) {
	g := graph.Build(r.snapshotOpen())
	return schedule.FindCriticalPath(g)
}

// Cycles returns every circular dependency chain in the current snapshot.
func (r *Resolver) Cycles() [][]string {
	g := graph.Build(r.snapshotOpen())
	return g.DetectCycles()
}

// Ready classifies the current snapshot into ready, blocked, and
// in-progress issues.
func (r *Resolver) Ready() *ready.ReadyIssues {
	return ready.Classify(r.snapshotAll())
}

// ParallelSet plans which currently-ready issues may run concurrently.
func (r *Resolver) ParallelSet() *ready.ParallelSet {
	return ready.ComputeParallelExecutionSet(ready.Classify(r.snapshotAll()).Ready)
}

// Validate pre-flights execution of one issue. The returned error is
// ErrNotFound or ErrAlreadyClosed for those blockers; the full structured
// result is always returned alongside.
func (r *Resolver) Validate(id string) (*ready.Validation, error) {
	issues := r.snapshotAll()
	v := ready.ValidateExecution(id, issues)

	for _, iss := range issues {
		if iss.ID == id {
			if iss.Status == graph.StatusClosed {
				return v, fmt.Errorf("%w: %s", ErrAlreadyClosed, id)
			}
			return v, nil
		}
	}
	return v, fmt.Errorf("%w: %s", ErrNotFound, id)
}
