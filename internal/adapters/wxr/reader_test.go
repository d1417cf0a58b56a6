package wxr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpkirby/internal/application"
	"wpkirby/internal/domain"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8" ?>
<rss version="2.0"
	xmlns:excerpt="http://wordpress.org/export/1.2/excerpt/"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:wfw="http://wellformedweb.org/CommentAPI/"
	xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<title>Example</title>
	<link>https://example.com</link>
	<wp:base_site_url>https://example.com</wp:base_site_url>
	<item>
		<title>Hello</title>
		<link>https://example.com/blog/hello-world/</link>
		<content:encoded><![CDATA[<p>Hi [caption id="x"]there[/caption]</p>]]></content:encoded>
		<excerpt:encoded><![CDATA[]]></excerpt:encoded>
		<wp:post_id>1</wp:post_id>
		<wp:post_date><![CDATA[2024-03-05 10:00:00]]></wp:post_date>
		<wp:post_name><![CDATA[hello-world]]></wp:post_name>
		<wp:status><![CDATA[publish]]></wp:status>
		<wp:post_parent>0</wp:post_parent>
		<wp:menu_order>0</wp:menu_order>
		<wp:post_type><![CDATA[post]]></wp:post_type>
		<category domain="category" nicename="travel"><![CDATA[Travel]]></category>
		<category domain="post_tag" nicename="summer"><![CDATA[summer]]></category>
		<category domain="post_format" nicename="post-format-status"><![CDATA[Status]]></category>
		<wp:postmeta>
			<wp:meta_key><![CDATA[_edit_last]]></wp:meta_key>
			<wp:meta_value><![CDATA[1]]></wp:meta_value>
		</wp:postmeta>
		<wp:postmeta>
			<wp:meta_key><![CDATA[mastodon_url]]></wp:meta_key>
			<wp:meta_value><![CDATA[https://social.example/@me/1]]></wp:meta_value>
		</wp:postmeta>
	</item>
	<item>
		<title>Trashed</title>
		<wp:post_id>2</wp:post_id>
		<wp:status><![CDATA[trash]]></wp:status>
		<wp:post_type><![CDATA[post]]></wp:post_type>
	</item>
	<item>
		<title>About</title>
		<wp:post_id>10</wp:post_id>
		<wp:post_date><![CDATA[2023-01-01 00:00:00]]></wp:post_date>
		<wp:post_name><![CDATA[about]]></wp:post_name>
		<wp:status><![CDATA[publish]]></wp:status>
		<wp:post_parent>0</wp:post_parent>
		<wp:menu_order>3</wp:menu_order>
		<wp:post_type><![CDATA[page]]></wp:post_type>
	</item>
	<item>
		<title>photo</title>
		<guid isPermaLink="false">https://example.com/wp-content/uploads/2024/03/photo.jpg</guid>
		<excerpt:encoded><![CDATA[At the lake]]></excerpt:encoded>
		<wp:post_id>20</wp:post_id>
		<wp:status><![CDATA[inherit]]></wp:status>
		<wp:post_parent>1</wp:post_parent>
		<wp:post_type><![CDATA[attachment]]></wp:post_type>
		<wp:attachment_url><![CDATA[https://example.com/wp-content/uploads/2024/03/photo.jpg]]></wp:attachment_url>
		<wp:postmeta>
			<wp:meta_key><![CDATA[_wp_attached_file]]></wp:meta_key>
			<wp:meta_value><![CDATA[2024/03/photo.jpg]]></wp:meta_value>
		</wp:postmeta>
		<wp:postmeta>
			<wp:meta_key><![CDATA[_wp_attachment_image_alt]]></wp:meta_key>
			<wp:meta_value><![CDATA[<em>A</em> lake]]></wp:meta_value>
		</wp:postmeta>
	</item>
	<item>
		<title>manual</title>
		<wp:post_id>21</wp:post_id>
		<wp:post_parent>1</wp:post_parent>
		<wp:post_type><![CDATA[attachment]]></wp:post_type>
		<wp:attachment_url><![CDATA[https://example.com/wp-content/uploads/2024/03/manual.pdf]]></wp:attachment_url>
	</item>
</channel>
</rss>
`

func TestLoad(t *testing.T) {
	store, err := Load(strings.NewReader(sampleExport), Options{UploadsDir: "/srv/uploads"})
	require.NoError(t, err)

	posts, err := store.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1, "trashed posts are skipped")

	post := posts[0]
	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, domain.KindPost, post.Kind)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "<p>Hi there</p>", post.Body)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), post.PublishDate)
	assert.Equal(t, domain.FormatStatus, post.Format)
	assert.Equal(t, []string{"Travel"}, post.Categories())
	assert.Equal(t, []string{"summer"}, post.Tags())
	assert.Equal(t, "https://social.example/@me/1", post.Field("mastodon_url"))
	assert.Equal(t, "", post.Field("_edit_last"))

	pages, err := store.ListChildren(0)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 3, pages[0].MenuOrder)
}

func TestLoad_Attachments(t *testing.T) {
	store, err := Load(strings.NewReader(sampleExport), Options{UploadsDir: "/srv/uploads"})
	require.NoError(t, err)

	atts, err := store.ListAttachments(1)
	require.NoError(t, err)
	require.Len(t, atts, 1, "only images are attachments")

	att := atts[0]
	assert.Equal(t, filepath.Join("/srv/uploads", "2024", "03", "photo.jpg"), att.FilePath)
	assert.Equal(t, "A lake", att.AltText)
	assert.Equal(t, "At the lake", att.Caption)

	id, err := store.ResolveURL("https://example.com/wp-content/uploads/2024/03/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(20), id)

	_, err = store.GetAttachment(21)
	assert.True(t, errors.Is(err, application.ErrNotFound))
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(strings.NewReader("not an export"), Options{})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	store, err := LoadFile(path, Options{})
	require.NoError(t, err)

	att, err := store.GetAttachment(20)
	require.NoError(t, err)
	assert.Empty(t, att.FilePath, "no uploads folder configured")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.xml"), Options{})
	assert.Error(t, err)
}
