package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"wpkirby/internal/adapters/auth"
	"wpkirby/internal/adapters/filesystem"
	"wpkirby/internal/adapters/markup"
	"wpkirby/internal/adapters/sqlite"
	"wpkirby/internal/adapters/wxr"
	"wpkirby/internal/application"
	"wpkirby/internal/application/export"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

const (
	DefaultExportRoot  = "~/kirby-export"
	DefaultBlogBase    = "blog"
	DefaultTablePrefix = "wp_"
)

// Config holds the settings shared by the CLI, the TUI and the MCP server
type Config struct {
	Source      string // WordPress SQLite database or WXR export file
	ExportRoot  string
	SiteURL     string
	BlogBase    string
	UploadsDir  string
	UploadsURL  string
	TablePrefix string
	Secret      string // signing secret for run tokens
	Token       string // run token presented by the caller

	MastodonField  string
	TypeField      string
	TimeframeField string
}

// Load reads a .env file from the working directory, if present, and the
// WPKIRBY_* environment variables
func Load() *Config {
	_ = godotenv.Load()

	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	return &Config{
		Source:         getEnv("WPKIRBY_SOURCE", ""),
		ExportRoot:     getEnv("WPKIRBY_EXPORT_ROOT", DefaultExportRoot),
		SiteURL:        getEnv("WPKIRBY_SITE_URL", ""),
		BlogBase:       getEnv("WPKIRBY_BLOG_BASE", DefaultBlogBase),
		UploadsDir:     getEnv("WPKIRBY_UPLOADS_DIR", ""),
		UploadsURL:     getEnv("WPKIRBY_UPLOADS_URL", ""),
		TablePrefix:    getEnv("WPKIRBY_TABLE_PREFIX", DefaultTablePrefix),
		Secret:         getEnv("WPKIRBY_SECRET", ""),
		Token:          getEnv("WPKIRBY_TOKEN", ""),
		MastodonField:  getEnv("WPKIRBY_MASTODON_FIELD", "mastodon_url"),
		TypeField:      getEnv("WPKIRBY_TYPE_FIELD", "type"),
		TimeframeField: getEnv("WPKIRBY_TIMEFRAME_FIELD", "timeframe"),
	}
}

// RunConfig returns the run inputs of an export
func (c *Config) RunConfig() domain.RunConfig {
	return domain.RunConfig{
		SiteURL:    strings.TrimSpace(c.SiteURL),
		BlogBase:   c.BlogBase,
		Credential: strings.TrimSpace(c.Token),
	}
}

// Root returns the export root with ~ expanded
func (c *Config) Root() string {
	return filesystem.ExpandHome(c.ExportRoot)
}

// OpenSource opens the configured content source. Files ending in .xml are
// read as WXR exports, anything else as a WordPress SQLite database.
func (c *Config) OpenSource() (ports.ContentSource, error) {
	if err := application.ValidateRequired("source", c.Source); err != nil {
		return nil, err
	}

	path := filesystem.ExpandHome(c.Source)
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return wxr.LoadFile(path, wxr.Options{UploadsDir: filesystem.ExpandHome(c.UploadsDir)})
	}

	return sqlite.Open(path, sqlite.Options{
		TablePrefix: c.TablePrefix,
		UploadsDir:  c.UploadsDir,
		UploadsURL:  c.UploadsURL,
	})
}

// Authorizer returns the run token authorizer for the configured site
func (c *Config) Authorizer() *auth.TokenAuthorizer {
	return auth.NewTokenAuthorizer(c.Secret, strings.TrimSpace(c.SiteURL))
}

// Exporter wires an exporter over source. A nil logger discards output.
func (c *Config) Exporter(source ports.ContentSource, logger *log.Logger) *export.Exporter {
	opts := export.DefaultOptions(c.Root())
	opts.MastodonField = c.MastodonField
	opts.TypeField = c.TypeField
	opts.TimeframeField = c.TimeframeField
	opts.Logger = logger

	return export.New(source, filesystem.NewWriter(), markup.NewEditor(), c.Authorizer(), c.RunConfig(), opts)
}
