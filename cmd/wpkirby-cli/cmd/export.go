package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"wpkirby/internal/application/commands"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all posts, pages and images",
	Long: `Export every post, then the page hierarchy, into the export root.

Runs are idempotent: text files are rewritten, images already present in a
record folder are left alone. Interrupting the run keeps what was written.

Example:
  wpkirby-cli export --source site.xml --site https://example.com --token $TOKEN`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		src, err := GetSource()
		if err != nil {
			return err
		}

		exportCmd := commands.NewExportCommand(cfg.Exporter(src, logger()))
		result, err := exportCmd.Execute(ctx)
		if result != nil {
			fmt.Print(result.Summary.String())
		}
		if err != nil {
			return err
		}

		if !result.Summary.OK() {
			return fmt.Errorf("%d records failed", len(result.Summary.Failures))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
