package ui

import (
	"github.com/fatih/color"

	"github.com/calrowan/depwave/internal/graph"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// issueColors is a palette of distinct bold colors for differentiating issues.
var issueColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

func issueColorIndex(id string) int {
	var h uint32
	for _, c := range id {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(issueColors)))
}

// IssuePrefix returns a colored [issue-id] prefix string. Each id gets a
// distinct color from the palette.
func IssuePrefix(id string) string {
	c := issueColors[issueColorIndex(id)]
	return Dim("[") + c(id) + Dim("]")
}

// StatusIcon returns a colored icon for an issue status.
func StatusIcon(status graph.Status) string {
	switch status {
	case graph.StatusClosed:
		return Green("✓")
	case graph.StatusInProgress:
		return Cyan("●")
	case graph.StatusOpen:
		return Yellow("◌")
	default:
		return Dim("?")
	}
}

// TypeBadge returns a colored short badge for an issue type.
func TypeBadge(t graph.IssueType) string {
	switch t {
	case graph.TypeBug:
		return Red("bug")
	case graph.TypeFeature:
		return Magenta("feature")
	case graph.TypeEpic:
		return BoldCyan("epic")
	default:
		return Dim("task")
	}
}
