package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"wpkirby/internal/config"
	"wpkirby/internal/ports"
)

var (
	cfg     = config.Load()
	verbose bool
	source  ports.ContentSource
)

var rootCmd = &cobra.Command{
	Use:   "wpkirby-cli",
	Short: "Export a WordPress site to a Kirby content folder",
	Long: `wpkirby-cli converts the posts, pages and images of a WordPress site
into the flat-file folder layout of the Kirby CMS.

The site is read from its SQLite database or from a WXR export file.
Settings come from WPKIRBY_* environment variables (a .env file in the
working directory is loaded first) and can be overridden with flags.`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if source != nil {
			return source.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfg.Source, "source", "s", cfg.Source, "WordPress SQLite database or WXR export file")
	flags.StringVarP(&cfg.ExportRoot, "root", "r", cfg.ExportRoot, "export root folder")
	flags.StringVar(&cfg.SiteURL, "site", cfg.SiteURL, "public URL of the WordPress site")
	flags.StringVar(&cfg.BlogBase, "blog-base", cfg.BlogBase, "folder and URL segment of the blog")
	flags.StringVar(&cfg.UploadsDir, "uploads", cfg.UploadsDir, "local copy of wp-content/uploads")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "run token")
	flags.BoolVar(&verbose, "verbose", false, "log every exported record to stderr")
}

// GetSource opens the configured content source on first use
func GetSource() (ports.ContentSource, error) {
	if source != nil {
		return source, nil
	}
	src, err := cfg.OpenSource()
	if err != nil {
		return nil, err
	}
	source = src
	return source, nil
}

func logger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "wpkirby: ", log.LstdFlags)
}
