package infer

import (
	"strings"
	"testing"

	"github.com/calrowan/depwave/internal/graph"
)

func TestBuildPrompt_ContainsIssues(t *testing.T) {
	prompt, err := buildPrompt([]IssueSummary{
		{ID: "dw-1", Title: "Set up schema", Type: "task"},
		{ID: "dw-2", Title: "Write queries", Type: "feature"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"dw-1", "dw-2", "Set up schema", "exact structure"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestStripJSONFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"edges": []}`, `{"edges": []}`},
		{"```json\n{\"edges\": []}\n```", `{"edges": []}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tc := range cases {
		if got := stripJSONFences(tc.in); got != tc.want {
			t.Errorf("stripJSONFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateEdges_FiltersUnknownAndSelf(t *testing.T) {
	issues := []graph.Issue{
		{ID: "a", Status: graph.StatusOpen},
		{ID: "b", Status: graph.StatusOpen},
	}
	edges := []DepEdge{
		{IssueID: "b", DependsOnID: "a"},
		{IssueID: "b", DependsOnID: "nope"},
		{IssueID: "nope", DependsOnID: "a"},
		{IssueID: "a", DependsOnID: "a"},
	}

	accepted, rejected := ValidateEdges(edges, issues)

	if len(accepted) != 1 || accepted[0].IssueID != "b" || accepted[0].DependsOnID != "a" {
		t.Errorf("expected only b->a accepted, got %+v", accepted)
	}
	if len(rejected) != 3 {
		t.Errorf("expected 3 rejections, got %v", rejected)
	}
}

func TestValidateEdges_RejectsCycles(t *testing.T) {
	issues := []graph.Issue{
		{ID: "a", Status: graph.StatusOpen},
		{ID: "b", Status: graph.StatusOpen},
	}
	edges := []DepEdge{
		{IssueID: "b", DependsOnID: "a"},
		{IssueID: "a", DependsOnID: "b"}, // closes the loop
	}

	accepted, rejected := ValidateEdges(edges, issues)

	if len(accepted) != 1 {
		t.Fatalf("expected 1 accepted edge, got %+v", accepted)
	}
	if len(rejected) != 1 || !strings.Contains(rejected[0], "cycle") {
		t.Errorf("expected cycle rejection, got %v", rejected)
	}
}

func TestValidateEdges_RespectsExistingDeps(t *testing.T) {
	// a already depends on b, so inferring b depends on a must be refused
	issues := []graph.Issue{
		{ID: "a", Status: graph.StatusOpen, DependsOn: []string{"b"}},
		{ID: "b", Status: graph.StatusOpen},
	}
	edges := []DepEdge{
		{IssueID: "b", DependsOnID: "a"},
	}

	accepted, rejected := ValidateEdges(edges, issues)

	if len(accepted) != 0 {
		t.Errorf("expected no accepted edges, got %+v", accepted)
	}
	if len(rejected) != 1 {
		t.Errorf("expected 1 rejection, got %v", rejected)
	}
}

func TestSummaries(t *testing.T) {
	issues := []graph.Issue{
		{ID: "a", Title: "A", Priority: 2, Type: graph.TypeBug, Description: "long text not sent"},
	}

	got := Summaries(issues)
	if len(got) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(got))
	}
	if got[0].ID != "a" || got[0].Title != "A" || got[0].Priority != 2 || got[0].Type != "bug" {
		t.Errorf("unexpected summary: %+v", got[0])
	}
}
