package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"wpkirby/internal/adapters/filesystem"
	mcpadapter "wpkirby/internal/adapters/mcp"
	"wpkirby/internal/application/commands"
	"wpkirby/internal/application/export"
	"wpkirby/internal/config"
)

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.Source, "source", cfg.Source, "WordPress SQLite database or WXR export file")
	flag.StringVar(&cfg.ExportRoot, "root", cfg.ExportRoot, "export root folder")
	flag.StringVar(&cfg.SiteURL, "site", cfg.SiteURL, "public URL of the WordPress site")
	verbose := flag.Bool("verbose", false, "log exported records to stderr")
	flag.Parse()

	// stdout carries the protocol
	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "wpkirby-mcp: ", log.LstdFlags)
	}

	source, err := cfg.OpenSource()
	if err != nil {
		log.Fatalf("wpkirby-mcp: %v", err)
	}
	defer source.Close()

	env := &mcpadapter.Env{
		Source:       source,
		Writer:       filesystem.NewWriter(),
		Root:         cfg.Root(),
		BlogBase:     cfg.BlogBase,
		MaxPageDepth: export.DefaultMaxPageDepth,
		NewRunner: func(token string) commands.Runner {
			runCfg := *cfg
			if token != "" {
				runCfg.Token = token
			}
			return runCfg.Exporter(source, logger)
		},
	}

	mcpServer := server.NewMCPServer(
		"wpkirby-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, env)
	mcpadapter.RegisterWriteTools(mcpServer, env)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("wpkirby-mcp: %v", err)
	}
}
