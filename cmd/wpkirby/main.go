package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wpkirby/internal/adapters/tui"
	"wpkirby/internal/adapters/tui/views"
	"wpkirby/internal/config"
)

func main() {
	cfg := config.Load()

	source, err := cfg.OpenSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer source.Close()

	// The alt screen owns the terminal, so record logging is discarded
	exporter := cfg.Exporter(source, log.New(io.Discard, "", 0))

	app := tui.NewApp(exporter, source, views.RunInfo{
		Source:  cfg.Source,
		Root:    cfg.Root(),
		SiteURL: cfg.SiteURL,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		source.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
