package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"wpkirby/internal/application/commands"
)

// RegisterWriteTools adds the tools that gate or perform an export.
func RegisterWriteTools(s *server.MCPServer, env *Env) {
	s.AddTool(checkTool(), checkHandler(env))
	s.AddTool(exportTool(), exportHandler(env))
}

// --- check ---

func checkTool() mcp.Tool {
	return mcp.NewTool("check",
		mcp.WithDescription("Verify settings and run token without writing anything. Reports how many records an export would cover."),
		mcp.WithString("token",
			mcp.Description("Run token. Omit to use the configured one."),
		),
	)
}

func checkHandler(env *Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		runner := env.NewRunner(req.GetString("token", ""))

		result, err := commands.NewCheckCommand(runner, env.Source).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Export all posts, pages and images into the Kirby content folder. Safe to repeat: text files are rewritten, existing images are kept."),
		mcp.WithString("token",
			mcp.Description("Run token. Omit to use the configured one."),
		),
	)
}

func exportHandler(env *Env) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		runner := env.NewRunner(req.GetString("token", ""))

		result, err := commands.NewExportCommand(runner).Execute(ctx)
		if err != nil {
			if result != nil {
				return toolError(fmt.Errorf("%w\n%s", err, result.Summary.String()))
			}
			return toolError(err)
		}

		if !result.Summary.OK() {
			return mcp.NewToolResultError(result.Summary.String()), nil
		}
		return mcp.NewToolResultText(result.Summary.String()), nil
	}
}
