package graph

// DetectCycles finds circular dependency chains. Each cycle is the ordered
// list of issue ids forming the loop, recorded as the suffix of the DFS path
// from the re-entered node onward.
//
// The traversal is an explicit-stack DFS (no recursion, so pathological
// chain depth can't overflow the goroutine stack). Roots are visited in
// snapshot insertion order and dependency edges in declared order, so output
// is deterministic for a fixed snapshot. A global visited set keeps the
// whole sweep O(V+E); multiple disjoint cycles are all reported.
func (g *DependencyGraph) DetectCycles() [][]string {
	var cycles [][]string

	visited := make(map[string]bool, len(g.order))
	onPath := make(map[string]bool)
	pathIndex := make(map[string]int)

	type frame struct {
		id   string
		next int // next dependency edge to follow
	}

	for _, root := range g.order {
		if visited[root] {
			continue
		}

		visited[root] = true
		onPath[root] = true
		pathIndex[root] = 0
		path := []string{root}
		stack := []frame{{id: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.Edges[top.id]

			if top.next < len(deps) {
				dep := deps[top.next]
				top.next++

				if _, ok := g.Nodes[dep]; !ok {
					continue // externally resolved
				}
				if onPath[dep] {
					start := pathIndex[dep]
					cycle := make([]string, len(path)-start)
					copy(cycle, path[start:])
					cycles = append(cycles, cycle)
					continue
				}
				if visited[dep] {
					continue
				}

				visited[dep] = true
				onPath[dep] = true
				pathIndex[dep] = len(path)
				path = append(path, dep)
				stack = append(stack, frame{id: dep})
				continue
			}

			done := top.id
			stack = stack[:len(stack)-1]
			delete(onPath, done)
			path = path[:len(path)-1]
		}
	}

	return cycles
}

// HasCycle reports whether the graph contains at least one cycle.
func (g *DependencyGraph) HasCycle() bool {
	return len(g.DetectCycles()) > 0
}
