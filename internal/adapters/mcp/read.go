package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"wpkirby/internal/application/commands"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// Env holds what the tools run against
type Env struct {
	Source       ports.ContentSource
	Writer       ports.SiteWriter
	Root         string
	BlogBase     string
	MaxPageDepth int

	// NewRunner builds an exporter for the given run token; an empty
	// token selects the configured one
	NewRunner func(token string) commands.Runner
}

// RegisterReadTools adds the tools that never write to the export root.
func RegisterReadTools(s *server.MCPServer, env *Env) {
	s.AddTool(listTool(), listHandler(env))
	s.AddTool(treeTool(), treeHandler(env))
	s.AddTool(readRecordTool(), readRecordHandler(env))
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List WordPress posts or pages with the Kirby file each one is exported to."),
		mcp.WithString("kind",
			mcp.Description("posts or pages (default posts)"),
		),
	)
}

func listHandler(env *Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var (
			planned []commands.PlannedRecord
			err     error
		)

		switch kind := req.GetString("kind", "posts"); kind {
		case "posts":
			planned, err = commands.NewListPostsCommand(env.Source, env.BlogBase).Execute(ctx)
		case "pages":
			planned, err = commands.NewListPagesCommand(env.Source, env.MaxPageDepth).Execute(ctx)
		default:
			return toolError(fmt.Errorf("invalid kind: %s (expected posts or pages)", kind))
		}
		if err != nil {
			return toolError(err)
		}

		return formatEntities(planned, formatPlanned)
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the exported folder tree."),
	)
}

func treeHandler(env *Env) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		root, err := commands.NewBuildTreeCommand(env.Writer, env.Root).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		for _, child := range root.Children {
			renderTree(&sb, child, "")
		}
		fmt.Fprintf(&sb, "%d files\n", root.CountFiles())
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	name := node.Name
	if node.IsDir {
		name += "/"
	}
	fmt.Fprintf(sb, "%s%s\n", prefix, name)
	for _, child := range node.Children {
		renderTree(sb, child, prefix+"  ")
	}
}

// --- read_record ---

func readRecordTool() mcp.Tool {
	return mcp.NewTool("read_record",
		mcp.WithDescription("Read the exported Kirby text file of a post or page."),
		mcp.WithNumber("id",
			mcp.Description("WordPress post or page ID"),
			mcp.Required(),
		),
	)
}

func readRecordHandler(env *Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(req.GetFloat("id", 0))

		locateCmd := commands.NewLocateRecordCommand(env.Source, env.Writer, env.Root, env.BlogBase, id)
		result, err := locateCmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		content, err := os.ReadFile(result.Path)
		if err != nil {
			return toolError(fmt.Errorf("reading record file: %w", err))
		}

		return mcp.NewToolResultText(string(content)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatPlanned(p commands.PlannedRecord) string {
	title := p.Record.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%d  %s%s  %s", p.Record.ID, strings.Repeat("  ", p.Depth), title, p.Path)
}
