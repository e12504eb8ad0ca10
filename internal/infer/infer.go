// Package infer uses Claude to propose dependency edges between issues
// whose relationships were never declared. Proposed edges are validated
// against the snapshot and cycle-checked before they reach the store.
package infer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/calrowan/depwave/internal/graph"
)

// IssueSummary is the minimal issue info sent to Claude for inference.
type IssueSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority int    `json:"priority"`
	Type     string `json:"type"`
}

// DepEdge is a single inferred dependency.
type DepEdge struct {
	IssueID     string `json:"issue_id"`      // issue that is blocked
	DependsOnID string `json:"depends_on_id"` // issue that must close first
	Reason      string `json:"reason"`
}

// Result holds the full response from Claude.
type Result struct {
	Edges   []DepEdge `json:"edges"`
	Summary string    `json:"summary"`
}

// Client wraps the Anthropic SDK for dependency inference calls.
type Client struct {
	inner anthropic.Client
	model anthropic.Model
}

// NewClient creates a Claude client. apiKey defaults to ANTHROPIC_API_KEY
// env; model defaults to Claude Sonnet.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	inner := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	m := anthropic.ModelClaudeSonnet4_6
	if model != "" {
		m = anthropic.Model(model)
	}

	return &Client{inner: inner, model: m}, nil
}

const inferPrompt = `You are an expert software project manager. Given a list of issues from a software project, infer dependency edges between them.

Rules:
- Only add a dependency when there is a strong causal reason (issue B cannot start until issue A is complete).
- Prefer fewer edges — do not add transitive or speculative dependencies.
- Do not create cycles.
- Only use issue IDs from the provided list.
- An issue cannot depend on itself.

Return your answer as JSON with this exact structure:
{
  "edges": [
    {"issue_id": "<issue that is blocked>", "depends_on_id": "<issue that must close first>", "reason": "<short explanation>"}
  ],
  "summary": "<one paragraph summary of the dependency structure>"
}

Return ONLY the JSON object. No markdown fences, no commentary outside the JSON.

Here are the issues:
`

func buildPrompt(issues []IssueSummary) (string, error) {
	data, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal issues: %w", err)
	}
	return inferPrompt + string(data), nil
}

// InferDeps calls the Claude API to infer dependencies between issues.
func (c *Client) InferDeps(ctx context.Context, issues []IssueSummary) (*Result, error) {
	prompt, err := buildPrompt(issues)
	if err != nil {
		return nil, err
	}

	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(4096),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude API call: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	text = stripJSONFences(text)

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parse claude response: %w\nraw: %s", err, text)
	}

	return &result, nil
}

// Summaries converts snapshot issues to the minimal form sent to Claude.
func Summaries(issues []graph.Issue) []IssueSummary {
	out := make([]IssueSummary, len(issues))
	for i, iss := range issues {
		out[i] = IssueSummary{
			ID:       iss.ID,
			Title:    iss.Title,
			Priority: iss.Priority,
			Type:     string(iss.Type),
		}
	}
	return out
}

// stripJSONFences removes markdown code fences that Claude sometimes adds.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
