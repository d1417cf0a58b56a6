package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wpkirby/internal/adapters/markup"
	"wpkirby/internal/application/commands"
	"wpkirby/internal/application/export"
)

var listCmd = &cobra.Command{
	Use:   "list [posts|pages]",
	Short: "List records and where they will be exported",
	Long: `List posts or pages together with the file each one is exported to,
relative to the export root.

Examples:
  wpkirby-cli list posts
  wpkirby-cli list pages`,
}

var listPostsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List all posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := GetSource()
		if err != nil {
			return err
		}

		listCmd := commands.NewListPostsCommand(src, cfg.BlogBase)
		posts, err := listCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		for _, p := range posts {
			images := ""
			if sources, err := markup.ImageSources(p.Record.Body); err == nil && len(sources) > 0 {
				images = fmt.Sprintf(" (%d images)", len(sources))
			}
			fmt.Printf("%6d %-8s %s%s\n", p.Record.ID, p.Record.Status, p.Path, images)
		}
		return nil
	},
}

var listPagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the page hierarchy",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := GetSource()
		if err != nil {
			return err
		}

		listCmd := commands.NewListPagesCommand(src, export.DefaultMaxPageDepth)
		pages, err := listCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		for _, p := range pages {
			indent := strings.Repeat("  ", p.Depth)
			fmt.Printf("%6d %s%s  %s\n", p.Record.ID, indent, p.Record.Title, p.Path)
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listPostsCmd)
	listCmd.AddCommand(listPagesCmd)
	rootCmd.AddCommand(listCmd)
}
