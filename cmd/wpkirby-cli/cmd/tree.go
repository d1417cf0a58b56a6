package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wpkirby/internal/adapters/filesystem"
	"wpkirby/internal/application/commands"
	"wpkirby/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the exported folder tree",
	Long: `Display the folder tree below the export root.

Example:
  wpkirby-cli tree --root ~/kirby-export`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buildCmd := commands.NewBuildTreeCommand(filesystem.NewWriter(), cfg.Root())
		root, err := buildCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		printTree(root, 0)
		fmt.Printf("\n%d files\n", root.CountFiles())
		return nil
	},
}

func printTree(node *domain.TreeNode, depth int) {
	if node == nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	name := node.Name
	if node.IsDir {
		name += "/"
	}
	fmt.Printf("%s%s\n", indent, name)

	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
