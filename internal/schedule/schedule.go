package schedule

import "github.com/calrowan/depwave/internal/graph"

// ComputeExecutionOrder partitions the graph into parallel waves.
//
// Each sweep collects the ready set: unvisited nodes whose dependencies are
// all visited or absent from the snapshot (absent means externally
// resolved). The ready set becomes one wave, its members are marked visited,
// and the sweep repeats. Every iteration either consumes at least one node
// or halts, so the loop always terminates; nodes left unvisited at that
// point sit on a cycle and are returned in Unresolved rather than raised as
// an error. Wave membership order follows snapshot insertion order.
func ComputeExecutionOrder(g *graph.DependencyGraph) *ExecutionOrder {
	order := &ExecutionOrder{}
	ids := g.Order()
	visited := make(map[string]bool, len(ids))

	for {
		var wave []string
		for _, id := range ids {
			if visited[id] {
				continue
			}
			ready := true
			for _, dep := range g.Dependencies(id) {
				if !g.HasNode(dep) {
					continue
				}
				if !visited[dep] {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, id)
			}
		}
		if len(wave) == 0 {
			break
		}
		for _, id := range wave {
			visited[id] = true
		}
		order.Parallel = append(order.Parallel, wave)
		order.Sequential = append(order.Sequential, wave...)
	}

	for _, id := range ids {
		if !visited[id] {
			order.Unresolved = append(order.Unresolved, id)
		}
	}

	if len(order.Unresolved) == 0 {
		// Acyclic by construction here, so this cannot fail.
		if cp, err := FindCriticalPath(g); err == nil {
			order.CriticalPath = cp
		}
	}

	return order
}

// Stats summarizes an execution order.
func Stats(order *ExecutionOrder) WaveStats {
	s := WaveStats{
		WaveCount:  len(order.Parallel),
		Scheduled:  len(order.Sequential),
		Unresolved: len(order.Unresolved),
	}
	for _, wave := range order.Parallel {
		if len(wave) > s.MaxWidth {
			s.MaxWidth = len(wave)
		}
	}
	return s
}
