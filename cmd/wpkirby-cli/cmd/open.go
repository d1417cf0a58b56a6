package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"wpkirby/internal/adapters/browser"
	"wpkirby/internal/adapters/editor"
	"wpkirby/internal/adapters/filesystem"
	"wpkirby/internal/application/commands"
)

var (
	printOnly bool
	openWeb   bool
)

var openCmd = &cobra.Command{
	Use:   "open <record-id>",
	Short: "Open the exported text file of a post or page",
	Long: `Open the exported text file of a post or page in $VISUAL or $EDITOR.
With --web the record's page on the published Kirby site is opened instead.

Examples:
  wpkirby-cli open 42
  wpkirby-cli open 42 --print
  wpkirby-cli open 42 --web`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid record ID %q", args[0])
		}

		src, err := GetSource()
		if err != nil {
			return err
		}

		locateCmd := commands.NewLocateRecordCommand(src, filesystem.NewWriter(), cfg.Root(), cfg.BlogBase, id)
		result, err := locateCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		if openWeb {
			web := browser.NewOpener(cfg.Root(), cfg.SiteURL)
			if printOnly {
				u, err := web.BuildURL(filepath.Dir(result.Path))
				if err != nil {
					return err
				}
				fmt.Println(u)
				return nil
			}
			return web.OpenDir(filepath.Dir(result.Path))
		}

		if printOnly {
			fmt.Println(result.Path)
			return nil
		}
		return editor.NewOpener().OpenFile(result.Path)
	},
}

func init() {
	openCmd.Flags().BoolVar(&printOnly, "print", false, "print the path instead of opening it")
	openCmd.Flags().BoolVar(&openWeb, "web", false, "open the published page in a browser")
	rootCmd.AddCommand(openCmd)
}
