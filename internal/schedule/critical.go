package schedule

import (
	"fmt"
	"strings"

	"github.com/calrowan/depwave/internal/graph"
)

// CycleError reports a circular dependency encountered by an acyclic-only
// computation. Cycle holds the offending loop for diagnostics.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// FindCriticalPath returns the longest dependency chain in the graph,
// ordered dependency-first. Length is hop count: each issue in the chain
// counts one, regardless of how long the work behind it takes.
//
// The recurrence is longest(n) = n followed by the best chain among n's
// in-snapshot dependencies, memoized per node and evaluated with an explicit
// stack. Callers are expected to pass an acyclic graph; if traversal
// re-enters a node on the active path, it fails fast with a *CycleError
// instead of looping.
func FindCriticalPath(g *graph.DependencyGraph) ([]string, error) {
	ids := g.Order()
	memo := make(map[string][]string, len(ids))
	onPath := make(map[string]bool)

	for _, start := range ids {
		if _, done := memo[start]; done {
			continue
		}

		onPath[start] = true
		stack := []frame{{id: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.Dependencies(top.id)

			descended := false
			for top.next < len(deps) {
				dep := deps[top.next]
				top.next++
				if !g.HasNode(dep) {
					continue
				}
				if onPath[dep] {
					return nil, &CycleError{Cycle: activeCycle(stack, dep)}
				}
				if _, done := memo[dep]; done {
					continue
				}
				onPath[dep] = true
				stack = append(stack, frame{id: dep})
				descended = true
				break
			}
			if descended {
				continue
			}

			// All dependencies memoized: pick the longest chain below.
			var best []string
			for _, dep := range deps {
				if !g.HasNode(dep) {
					continue
				}
				if len(memo[dep]) > len(best) {
					best = memo[dep]
				}
			}
			chain := make([]string, 0, len(best)+1)
			chain = append(chain, top.id)
			chain = append(chain, best...)

			done := top.id
			memo[done] = chain
			delete(onPath, done)
			stack = stack[:len(stack)-1]
		}
	}

	var best []string
	for _, id := range ids {
		if len(memo[id]) > len(best) {
			best = memo[id]
		}
	}

	// memo chains run issue -> dependency; flip to dependency-first.
	path := make([]string, len(best))
	for i, id := range best {
		path[len(best)-1-i] = id
	}
	return path, nil
}

// frame is one node on the explicit DFS stack.
type frame struct {
	id   string
	next int
}

// activeCycle reconstructs the loop from the DFS stack, starting at the
// re-entered node.
func activeCycle(stack []frame, reentered string) []string {
	start := 0
	for i, f := range stack {
		if f.id == reentered {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(stack)-start)
	for _, f := range stack[start:] {
		cycle = append(cycle, f.id)
	}
	return cycle
}
