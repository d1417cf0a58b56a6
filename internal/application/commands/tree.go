package commands

import (
	"context"

	"wpkirby/internal/application"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// BuildTreeCommand builds the folder tree of an export root
type BuildTreeCommand struct {
	writer ports.SiteWriter
	Root   string
}

// NewBuildTreeCommand creates a new BuildTreeCommand
func NewBuildTreeCommand(writer ports.SiteWriter, root string) *BuildTreeCommand {
	return &BuildTreeCommand{
		writer: writer,
		Root:   root,
	}
}

// Execute runs the build tree command
func (c *BuildTreeCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	if err := application.ValidateRequired("exportRoot", c.Root); err != nil {
		return nil, err
	}
	return c.writer.BuildTree(c.Root)
}
