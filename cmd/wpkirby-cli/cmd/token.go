package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wpkirby/internal/application/commands"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a run token for the configured site",
	Long: `Issue a signed run token for the configured site URL.
The signing secret is read from WPKIRBY_SECRET.

Example:
  export WPKIRBY_TOKEN=$(wpkirby-cli token --ttl 2h)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenCmd := commands.NewIssueTokenCommand(cfg.Authorizer(), tokenTTL)
		result, err := tokenCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Token)
		fmt.Fprintln(os.Stderr, result.Message)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
