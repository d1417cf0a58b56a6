package commands

import (
	"context"
	"fmt"

	"wpkirby/internal/ports"
)

// CheckResult reports what an export would cover
type CheckResult struct {
	Posts     int
	Drafts    int
	RootPages int
	Message   string
}

// CheckCommand verifies that an export may start, without writing anything
type CheckCommand struct {
	runner Runner
	source ports.ContentSource
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(runner Runner, source ports.ContentSource) *CheckCommand {
	return &CheckCommand{
		runner: runner,
		source: source,
	}
}

// Execute runs the check
func (c *CheckCommand) Execute(ctx context.Context) (*CheckResult, error) {
	if err := c.runner.Check(); err != nil {
		return nil, err
	}

	posts, err := c.source.ListPosts()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	pages, err := c.source.ListChildren(0)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	result := &CheckResult{RootPages: len(pages)}
	for i := range posts {
		if posts[i].IsDraft() {
			result.Drafts++
		} else {
			result.Posts++
		}
	}
	result.Message = fmt.Sprintf("Ready to export %d posts, %d drafts and %d top-level pages",
		result.Posts, result.Drafts, result.RootPages)

	return result, nil
}
