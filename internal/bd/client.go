// Package bd wraps the bd CLI binary, the external issue store. The
// resolver itself performs zero I/O; every issue record enters the system
// through this client.
package bd

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/calrowan/depwave/internal/graph"
)

// ErrStoreUnavailable means the bd binary could not be executed. Callers
// degrade to an empty or last-known-good snapshot instead of failing the
// whole computation.
var ErrStoreUnavailable = errors.New("issue store unavailable")

// Client wraps the bd CLI binary for issue and dependency operations.
type Client struct {
	BdBin  string // path to bd binary (default: "bd")
	DbPath string // --db flag value (optional)

	// MaxParallelFetch bounds concurrent bd invocations when filling
	// dependency lists. Zero means a default of 4.
	MaxParallelFetch int
}

// NewClient creates a Client using the given bd binary path and database path.
func NewClient(bdBin, dbPath string) *Client {
	if bdBin == "" {
		bdBin = "bd"
	}
	return &Client{BdBin: bdBin, DbPath: dbPath}
}

func (c *Client) baseArgs() []string {
	if c.DbPath != "" {
		return []string{"--db", c.DbPath}
	}
	return nil
}

func (c *Client) run(args ...string) ([]byte, error) {
	all := append(c.baseArgs(), args...)
	cmd := exec.Command(c.BdBin, all...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("bd %s: %w: %v\n%s", strings.Join(args, " "), ErrStoreUnavailable, err, string(out))
	}
	return out, nil
}

// ListOpen returns all open issues.
func (c *Client) ListOpen() ([]graph.Issue, error) {
	out, err := c.run("list", "--json", "--status", "open", "--limit", "0")
	if err != nil {
		return nil, err
	}
	return parseIssues(out), nil
}

// ListAll returns issues in every status, for validation lookups that need
// to see closed dependencies.
func (c *Client) ListAll() ([]graph.Issue, error) {
	out, err := c.run("list", "--json", "--limit", "0")
	if err != nil {
		return nil, err
	}
	return parseIssues(out), nil
}

// Show returns full details for a single issue, or nil when bd reports it
// missing.
func (c *Client) Show(id string) (*graph.Issue, error) {
	out, err := c.run("show", id, "--json")
	if err != nil {
		return nil, err
	}
	iss, ok := parseIssue(gjson.ParseBytes(out))
	if !ok {
		return nil, nil
	}
	return &iss, nil
}

// Deps returns the ids the given issue depends on
// (bd dep list <id> --direction=down).
func (c *Client) Deps(id string) ([]string, error) {
	out, err := c.run("dep", "list", id, "--direction=down", "--json")
	if err != nil {
		// dep list fails when no deps exist; treat as empty
		return nil, nil
	}
	var deps []string
	gjson.ParseBytes(out).ForEach(func(_, item gjson.Result) bool {
		if depID := item.Get("id").String(); depID != "" {
			deps = append(deps, depID)
		}
		return true
	})
	return deps, nil
}

// AddDep declares that issueID depends on dependsOnID.
func (c *Client) AddDep(issueID, dependsOnID string) error {
	_, err := c.run("dep", "add", issueID, dependsOnID)
	return err
}

// RemoveDep removes the dependency of issueID on dependsOnID.
func (c *Client) RemoveDep(issueID, dependsOnID string) error {
	_, err := c.run("dep", "remove", issueID, dependsOnID)
	return err
}

// FetchDependsOn fills DependsOn for each issue by querying bd per issue.
// Lookups run concurrently, bounded by MaxParallelFetch. A failed lookup
// logs a warning and leaves that issue's list empty rather than failing the
// whole snapshot.
func (c *Client) FetchDependsOn(issues []graph.Issue) []graph.Issue {
	limit := c.MaxParallelFetch
	if limit <= 0 {
		limit = 4
	}

	var eg errgroup.Group
	eg.SetLimit(limit)
	for i := range issues {
		eg.Go(func() error {
			deps, err := c.Deps(issues[i].ID)
			if err != nil {
				log.Printf("warning: failed to fetch deps for %s: %v", issues[i].ID, err)
				return nil
			}
			issues[i].DependsOn = deps
			return nil
		})
	}
	// Goroutines never return errors; failures are logged per-issue above.
	_ = eg.Wait()
	return issues
}

// parseIssues extracts issue records from a bd list JSON array. Malformed
// records (not an object, or no id) are skipped with a logged warning so a
// single bad row can't abort the whole resolution.
func parseIssues(data []byte) []graph.Issue {
	var issues []graph.Issue
	gjson.ParseBytes(data).ForEach(func(_, item gjson.Result) bool {
		iss, ok := parseIssue(item)
		if !ok {
			log.Printf("warning: skipping malformed issue record: %s", item.Raw)
			return true
		}
		issues = append(issues, iss)
		return true
	})
	return issues
}

func parseIssue(item gjson.Result) (graph.Issue, bool) {
	if !item.IsObject() {
		return graph.Issue{}, false
	}
	id := item.Get("id").String()
	if id == "" {
		return graph.Issue{}, false
	}

	iss := graph.Issue{
		ID:          id,
		Title:       item.Get("title").String(),
		Status:      graph.Status(item.Get("status").String()),
		Priority:    int(item.Get("priority").Int()),
		Type:        graph.IssueType(item.Get("issue_type").String()),
		Description: item.Get("description").String(),
	}
	item.Get("depends_on").ForEach(func(_, dep gjson.Result) bool {
		if depID := dep.String(); depID != "" {
			iss.DependsOn = append(iss.DependsOn, depID)
		}
		return true
	})
	if created := item.Get("created_at").String(); created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			iss.CreatedAt = t
		}
	}
	return iss, true
}
