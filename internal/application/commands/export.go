package commands

import (
	"context"
	"errors"
	"fmt"

	"wpkirby/internal/domain"
)

// Runner performs an export run. Run checks configuration and credential
// itself and returns a nil summary when the check fails.
type Runner interface {
	Check() error
	Run(ctx context.Context) (*domain.Summary, error)
}

// ExportResult contains the result of an export run
type ExportResult struct {
	Summary *domain.Summary
	Message string
}

// ExportCommand runs a full export
type ExportCommand struct {
	runner Runner
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(runner Runner) *ExportCommand {
	return &ExportCommand{runner: runner}
}

// Validate checks configuration and credential without running.
// Execute does not call it: the run checks the credential once on its own.
func (c *ExportCommand) Validate() error {
	return c.runner.Check()
}

// Execute runs the export. A run that stopped early still returns its
// partial summary alongside the error.
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	summary, err := c.runner.Run(ctx)
	if summary == nil {
		if err == nil {
			err = errors.New("no summary")
		}
		return nil, fmt.Errorf("export failed: %w", err)
	}

	result := &ExportResult{
		Summary: summary,
		Message: fmt.Sprintf("Exported %d records (%d failed)", summary.Exported(), len(summary.Failures)),
	}
	if err != nil {
		return result, fmt.Errorf("export stopped: %w", err)
	}
	return result, nil
}
