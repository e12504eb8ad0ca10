package ready

import (
	"reflect"
	"strings"
	"testing"

	"github.com/calrowan/depwave/internal/graph"
)

func TestClassify_ClosedDepIsSatisfied(t *testing.T) {
	issues := []graph.Issue{
		{ID: "y", Title: "Done", Status: graph.StatusClosed},
		{ID: "x", Title: "Next", Status: graph.StatusOpen, DependsOn: []string{"y"}},
	}

	ri := Classify(issues)

	if len(ri.Ready) != 1 || ri.Ready[0].ID != "x" {
		t.Errorf("expected x ready, got %+v", ri.Ready)
	}
	if len(ri.Blocked) != 0 {
		t.Errorf("expected nothing blocked, got %+v", ri.Blocked)
	}
}

func TestClassify_OpenDepBlocks(t *testing.T) {
	issues := []graph.Issue{
		{ID: "z", Title: "Not done", Status: graph.StatusOpen},
		{ID: "x", Title: "Waiting", Status: graph.StatusOpen, DependsOn: []string{"z"}},
	}

	ri := Classify(issues)

	if len(ri.Blocked) != 1 {
		t.Fatalf("expected 1 blocked issue, got %+v", ri.Blocked)
	}
	if ri.Blocked[0].Issue.ID != "x" {
		t.Errorf("expected x blocked, got %s", ri.Blocked[0].Issue.ID)
	}
	if !reflect.DeepEqual(ri.Blocked[0].Blockers, []string{"z"}) {
		t.Errorf("expected blockers [z], got %v", ri.Blocked[0].Blockers)
	}
}

func TestClassify_BlockersAreExactSubset(t *testing.T) {
	issues := []graph.Issue{
		{ID: "open-dep", Status: graph.StatusOpen},
		{ID: "closed-dep", Status: graph.StatusClosed},
		{ID: "wip-dep", Status: graph.StatusInProgress},
		{ID: "x", Status: graph.StatusOpen, DependsOn: []string{"open-dep", "closed-dep", "wip-dep", "absent-dep"}},
	}

	ri := Classify(issues)

	if len(ri.Blocked) != 1 {
		t.Fatalf("expected 1 blocked issue, got %+v", ri.Blocked)
	}
	if !reflect.DeepEqual(ri.Blocked[0].Blockers, []string{"open-dep", "wip-dep"}) {
		t.Errorf("expected blockers [open-dep wip-dep], got %v", ri.Blocked[0].Blockers)
	}
}

func TestClassify_AbsentDepIsSatisfied(t *testing.T) {
	issues := []graph.Issue{
		{ID: "a", Status: graph.StatusOpen, DependsOn: []string{"ghost"}},
	}

	ri := Classify(issues)

	if len(ri.Ready) != 1 || ri.Ready[0].ID != "a" {
		t.Errorf("expected a ready with absent dep, got %+v", ri)
	}
}

func TestClassify_InProgressBucket(t *testing.T) {
	issues := []graph.Issue{
		{ID: "a", Status: graph.StatusInProgress, DependsOn: []string{"b"}},
		{ID: "b", Status: graph.StatusOpen},
		{ID: "c", Status: graph.StatusClosed},
	}

	ri := Classify(issues)

	if len(ri.InProgress) != 1 || ri.InProgress[0].ID != "a" {
		t.Errorf("expected a in progress, got %+v", ri.InProgress)
	}
	// closed c must not appear anywhere
	if len(ri.Ready) != 1 || ri.Ready[0].ID != "b" {
		t.Errorf("expected only b ready, got %+v", ri.Ready)
	}
}

func TestValidateExecution_NotFound(t *testing.T) {
	v := ValidateExecution("missing", nil)

	if v.CanExecute {
		t.Error("expected canExecute=false for missing issue")
	}
	if len(v.Blockers) != 1 || !strings.Contains(v.Blockers[0], "not found") {
		t.Errorf("expected not-found blocker, got %v", v.Blockers)
	}
}

func TestValidateExecution_AlreadyClosed(t *testing.T) {
	issues := []graph.Issue{
		{ID: "a", Title: "Done already", Status: graph.StatusClosed},
	}

	v := ValidateExecution("a", issues)

	if v.CanExecute {
		t.Error("expected canExecute=false for closed issue")
	}
	if len(v.Blockers) != 1 || !strings.Contains(v.Blockers[0], "closed") {
		t.Errorf("expected already-closed blocker, got %v", v.Blockers)
	}
}

func TestValidateExecution_OpenDependency(t *testing.T) {
	issues := []graph.Issue{
		{ID: "dep", Title: "The prerequisite", Status: graph.StatusOpen},
		{ID: "a", Title: "Blocked work", Status: graph.StatusOpen, DependsOn: []string{"dep"}},
	}

	v := ValidateExecution("a", issues)

	if v.CanExecute {
		t.Error("expected canExecute=false with open dependency")
	}
	if len(v.Blockers) != 1 {
		t.Fatalf("expected 1 blocker, got %v", v.Blockers)
	}
	if !strings.Contains(v.Blockers[0], "dep") || !strings.Contains(v.Blockers[0], "The prerequisite") {
		t.Errorf("blocker must carry dependency id and title, got %q", v.Blockers[0])
	}
}

func TestValidateExecution_InProgressWarns(t *testing.T) {
	issues := []graph.Issue{
		{ID: "a", Title: "Being worked", Status: graph.StatusInProgress},
	}

	v := ValidateExecution("a", issues)

	if !v.CanExecute {
		t.Errorf("in-progress is a warning, not a blocker: %+v", v)
	}
	if len(v.Warnings) != 1 || !strings.Contains(v.Warnings[0], "in progress") {
		t.Errorf("expected in-progress warning, got %v", v.Warnings)
	}
}

func TestValidateExecution_CleanIssue(t *testing.T) {
	issues := []graph.Issue{
		{ID: "dep", Status: graph.StatusClosed},
		{ID: "a", Status: graph.StatusOpen, DependsOn: []string{"dep", "ghost"}},
	}

	v := ValidateExecution("a", issues)

	if !v.CanExecute {
		t.Errorf("expected canExecute=true, got %+v", v)
	}
	if len(v.Blockers) != 0 || len(v.Warnings) != 0 {
		t.Errorf("expected clean validation, got %+v", v)
	}
}
