package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpkirby/internal/application"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"WPKIRBY_SOURCE", "WPKIRBY_EXPORT_ROOT", "WPKIRBY_BLOG_BASE", "WPKIRBY_TABLE_PREFIX"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, DefaultExportRoot, cfg.ExportRoot)
	assert.Equal(t, DefaultBlogBase, cfg.BlogBase)
	assert.Equal(t, DefaultTablePrefix, cfg.TablePrefix)
	assert.Equal(t, "mastodon_url", cfg.MastodonField)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WPKIRBY_SITE_URL", "https://example.com")
	t.Setenv("WPKIRBY_BLOG_BASE", "journal")
	t.Setenv("WPKIRBY_TOKEN", " abc ")

	cfg := Load()
	run := cfg.RunConfig()
	assert.Equal(t, "https://example.com", run.SiteURL)
	assert.Equal(t, "journal", run.BlogBase)
	assert.Equal(t, "abc", run.Credential)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("WPKIRBY_SECRET", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WPKIRBY_SECRET=from-dotenv\n"), 0644))

	// godotenv does not override variables that are already set
	os.Unsetenv("WPKIRBY_SECRET")
	assert.Equal(t, "from-dotenv", Load().Secret)
}

func TestOpenSource_RequiresPath(t *testing.T) {
	_, err := (&Config{}).OpenSource()
	var verr *application.ValidationError
	assert.True(t, errors.As(err, &verr))
}

const minimalExport = `<?xml version="1.0" encoding="UTF-8"?>
<rss xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<item>
		<title>Hello</title>
		<content:encoded><![CDATA[<p>Hi</p>]]></content:encoded>
		<wp:post_id>1</wp:post_id>
		<wp:post_date>2024-03-05 10:00:00</wp:post_date>
		<wp:post_name>hello</wp:post_name>
		<wp:status>publish</wp:status>
		<wp:post_type>post</wp:post_type>
	</item>
</channel>
</rss>
`

func TestExporter_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "export.XML")
	require.NoError(t, os.WriteFile(source, []byte(minimalExport), 0644))

	cfg := &Config{
		Source:     source,
		ExportRoot: filepath.Join(dir, "out"),
		SiteURL:    "https://example.com",
		BlogBase:   "blog",
		Secret:     "s3cret",
	}

	token, err := cfg.Authorizer().Issue(time.Minute)
	require.NoError(t, err)
	cfg.Token = token

	src, err := cfg.OpenSource()
	require.NoError(t, err)
	defer src.Close()

	summary, err := cfg.Exporter(src, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Posts)
	assert.FileExists(t, filepath.Join(dir, "out", "blog", "20240305_hello", "journal.txt"))
}
