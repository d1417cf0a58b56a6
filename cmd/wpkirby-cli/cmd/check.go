package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wpkirby/internal/application/commands"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify settings and token without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := GetSource()
		if err != nil {
			return err
		}

		checkCmd := commands.NewCheckCommand(cfg.Exporter(src, logger()), src)
		result, err := checkCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		fmt.Printf("Export root: %s\n", cfg.Root())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
