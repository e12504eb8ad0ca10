package graph

import (
	"reflect"
	"testing"
)

func TestDetectCycles_Acyclic(t *testing.T) {
	issues := []Issue{
		{ID: "a", Status: StatusOpen},
		{ID: "b", Status: StatusOpen, DependsOn: []string{"a"}},
		{ID: "c", Status: StatusOpen, DependsOn: []string{"b"}},
	}

	if cycles := Build(issues).DetectCycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestDetectCycles_TwoCycle(t *testing.T) {
	issues := []Issue{
		{ID: "a", Status: StatusOpen, DependsOn: []string{"b"}},
		{ID: "b", Status: StatusOpen, DependsOn: []string{"a"}},
	}

	cycles := Build(issues).DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a", "b"}) {
		t.Errorf("expected cycle [a b], got %v", cycles[0])
	}
}

func TestDetectCycles_SuffixOfPath(t *testing.T) {
	// a -> b -> c -> b: the cycle is the path suffix [b c], not [a b c]
	issues := []Issue{
		{ID: "a", Status: StatusOpen, DependsOn: []string{"b"}},
		{ID: "b", Status: StatusOpen, DependsOn: []string{"c"}},
		{ID: "c", Status: StatusOpen, DependsOn: []string{"b"}},
	}

	cycles := Build(issues).DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"b", "c"}) {
		t.Errorf("expected cycle [b c], got %v", cycles[0])
	}
}

func TestDetectCycles_DisjointCycles(t *testing.T) {
	issues := []Issue{
		{ID: "a", Status: StatusOpen, DependsOn: []string{"b"}},
		{ID: "b", Status: StatusOpen, DependsOn: []string{"a"}},
		{ID: "x", Status: StatusOpen, DependsOn: []string{"y"}},
		{ID: "y", Status: StatusOpen, DependsOn: []string{"z"}},
		{ID: "z", Status: StatusOpen, DependsOn: []string{"x"}},
		{ID: "solo", Status: StatusOpen},
	}

	cycles := Build(issues).DetectCycles()
	if len(cycles) != 2 {
		t.Fatalf("expected 2 disjoint cycles, got %d: %v", len(cycles), cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a", "b"}) {
		t.Errorf("expected first cycle [a b], got %v", cycles[0])
	}
	if !reflect.DeepEqual(cycles[1], []string{"x", "y", "z"}) {
		t.Errorf("expected second cycle [x y z], got %v", cycles[1])
	}
}

func TestDetectCycles_DanglingIgnored(t *testing.T) {
	issues := []Issue{
		{ID: "a", Status: StatusOpen, DependsOn: []string{"ghost", "b"}},
		{ID: "b", Status: StatusOpen},
	}

	if cycles := Build(issues).DetectCycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles with dangling dep, got %v", cycles)
	}
}

func TestDetectCycles_Deterministic(t *testing.T) {
	issues := []Issue{
		{ID: "m", Status: StatusOpen, DependsOn: []string{"n"}},
		{ID: "n", Status: StatusOpen, DependsOn: []string{"m"}},
	}

	first := Build(issues).DetectCycles()
	for i := 0; i < 10; i++ {
		if got := Build(issues).DetectCycles(); !reflect.DeepEqual(got, first) {
			t.Fatalf("nondeterministic output: %v vs %v", got, first)
		}
	}
}
