package graph

import "log"

// Build constructs a DependencyGraph from an issue snapshot.
//
// Forward edges are recorded for every declared dependency, including ids
// that don't exist in this snapshot — those are treated as externally
// resolved and scheduling considers them satisfied. Reverse edges are only
// added when the target is a node in the same snapshot. Missing dependency
// targets are never an error.
func Build(issues []Issue) *DependencyGraph {
	g := &DependencyGraph{
		Nodes:        make(map[string]*Issue, len(issues)),
		Edges:        make(map[string][]string, len(issues)),
		ReverseEdges: make(map[string][]string),
		edgeSet:      make(map[string]map[string]bool, len(issues)),
	}

	// Index all issues first so reverse edges can check node existence.
	for i := range issues {
		iss := issues[i]
		if _, seen := g.Nodes[iss.ID]; !seen {
			g.order = append(g.order, iss.ID)
		}
		g.Nodes[iss.ID] = &iss
		g.Edges[iss.ID] = nil
		g.edgeSet[iss.ID] = make(map[string]bool)
	}

	for _, id := range g.order {
		for _, dep := range g.Nodes[id].DependsOn {
			if dep == id {
				log.Printf("warning: issue %s depends on itself, edge dropped", id)
				continue
			}
			if g.edgeSet[id][dep] {
				continue
			}
			g.edgeSet[id][dep] = true
			g.Edges[id] = append(g.Edges[id], dep)
			if _, ok := g.Nodes[dep]; ok {
				g.ReverseEdges[dep] = append(g.ReverseEdges[dep], id)
			}
		}
	}

	return g
}

// NodeCount returns the number of issues in the graph.
func (g *DependencyGraph) NodeCount() int {
	return len(g.Nodes)
}

// HasNode reports whether id is part of this snapshot.
func (g *DependencyGraph) HasNode(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// HasEdge reports whether from declares a dependency on to.
func (g *DependencyGraph) HasEdge(from, to string) bool {
	return g.edgeSet[from][to]
}

// Order returns node ids in snapshot insertion order.
func (g *DependencyGraph) Order() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Dependencies returns the ids that id depends on, in declared order.
// May include ids absent from the snapshot.
func (g *DependencyGraph) Dependencies(id string) []string {
	return g.Edges[id]
}

// Dependents returns the in-snapshot ids that depend on id.
func (g *DependencyGraph) Dependents(id string) []string {
	return g.ReverseEdges[id]
}

// Roots returns ids with no in-snapshot dependencies, in insertion order.
func (g *DependencyGraph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		inGraph := 0
		for _, dep := range g.Edges[id] {
			if _, ok := g.Nodes[dep]; ok {
				inGraph++
			}
		}
		if inGraph == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}
