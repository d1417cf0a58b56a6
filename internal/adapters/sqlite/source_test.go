package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpkirby/internal/application"
	"wpkirby/internal/domain"
)

const testSchema = `
	CREATE TABLE wp_posts (
		ID INTEGER PRIMARY KEY,
		post_author INTEGER NOT NULL DEFAULT 0,
		post_date TEXT NOT NULL DEFAULT '0000-00-00 00:00:00',
		post_content TEXT NOT NULL DEFAULT '',
		post_title TEXT NOT NULL DEFAULT '',
		post_excerpt TEXT NOT NULL DEFAULT '',
		post_status TEXT NOT NULL DEFAULT 'publish',
		post_name TEXT NOT NULL DEFAULT '',
		post_parent INTEGER NOT NULL DEFAULT 0,
		guid TEXT NOT NULL DEFAULT '',
		menu_order INTEGER NOT NULL DEFAULT 0,
		post_type TEXT NOT NULL DEFAULT 'post',
		post_mime_type TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE wp_postmeta (
		meta_id INTEGER PRIMARY KEY,
		post_id INTEGER NOT NULL,
		meta_key TEXT,
		meta_value TEXT
	);
	CREATE TABLE wp_terms (
		term_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL
	);
	CREATE TABLE wp_term_taxonomy (
		term_taxonomy_id INTEGER PRIMARY KEY,
		term_id INTEGER NOT NULL,
		taxonomy TEXT NOT NULL
	);
	CREATE TABLE wp_term_relationships (
		object_id INTEGER NOT NULL,
		term_taxonomy_id INTEGER NOT NULL
	);
`

const testData = `
	INSERT INTO wp_posts (ID, post_date, post_content, post_title, post_status, post_name, post_type) VALUES
		(1, '2024-03-05 10:00:00', 'Hello [gallery ids="1,2"] world', 'Hello', 'publish', 'hello-world', 'post'),
		(2, '2024-01-01 08:30:00', 'Just a status', '', 'publish', 'a-status', 'post'),
		(3, '0000-00-00 00:00:00', 'WIP', 'Draft', 'draft', '', 'post'),
		(4, '2024-02-02 00:00:00', 'gone', 'Trashed', 'trash', 'trashed', 'post');

	INSERT INTO wp_posts (ID, post_date, post_title, post_name, post_type, post_parent, menu_order) VALUES
		(10, '2023-01-01 00:00:00', 'About', 'about', 'page', 0, 2),
		(11, '2023-01-01 00:00:00', 'Team', 'team', 'page', 10, 1),
		(12, '2023-01-01 00:00:00', 'Contact', 'contact', 'page', 0, 1);

	INSERT INTO wp_posts (ID, post_excerpt, post_status, post_name, post_type, post_parent, guid, post_mime_type) VALUES
		(20, 'At the lake', 'inherit', 'photo', 'attachment', 1, 'https://example.com/wp-content/uploads/2024/03/photo.jpg', 'image/jpeg'),
		(21, '', 'inherit', 'manual', 'attachment', 1, 'https://example.com/wp-content/uploads/2024/03/manual.pdf', 'application/pdf'),
		(22, '', 'inherit', 'cafe', 'attachment', 0, 'https://example.com/wp-content/uploads/2024/03/café.jpg', 'image/jpeg');

	INSERT INTO wp_postmeta (post_id, meta_key, meta_value) VALUES
		(1, 'mastodon_url', 'https://social.example/@me/1'),
		(1, '_edit_lock', '1700000000:1'),
		(10, 'type', 'landing'),
		(20, '_wp_attached_file', '2024/03/photo.jpg'),
		(20, '_wp_attachment_image_alt', '<b>A</b> lake '),
		(21, '_wp_attached_file', '2024/03/manual.pdf'),
		(22, '_wp_attached_file', '2024/03/café.jpg');

	INSERT INTO wp_terms (term_id, name, slug) VALUES
		(1, 'Travel', 'travel'),
		(2, 'Art', 'art'),
		(3, 'summer', 'summer'),
		(4, 'Status', 'post-format-status');
	INSERT INTO wp_term_taxonomy (term_taxonomy_id, term_id, taxonomy) VALUES
		(1, 1, 'category'),
		(2, 2, 'category'),
		(3, 3, 'post_tag'),
		(4, 4, 'post_format');
	INSERT INTO wp_term_relationships (object_id, term_taxonomy_id) VALUES
		(1, 1), (1, 2), (1, 3), (2, 4);
`

func setupTestDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".ht.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(testSchema + testData)
	require.NoError(t, err)

	return path
}

func openTestSource(t *testing.T) *Source {
	t.Helper()

	src, err := Open(setupTestDB(t), Options{
		TablePrefix: "wp_",
		UploadsDir:  "/srv/wp/wp-content/uploads",
	})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

func TestOpen_RejectsBadPrefix(t *testing.T) {
	_, err := Open(setupTestDB(t), Options{TablePrefix: "wp_; DROP TABLE x"})
	var verr *application.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestOpen_WrongPrefix(t *testing.T) {
	_, err := Open(setupTestDB(t), Options{TablePrefix: "blog_"})
	assert.Error(t, err)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "none.sqlite"), Options{TablePrefix: "wp_"})
	assert.Error(t, err)
}

func TestListPosts(t *testing.T) {
	src := openTestSource(t)

	posts, err := src.ListPosts()
	require.NoError(t, err)

	var ids []int64
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	// Trashed post excluded; unscheduled draft sorts first
	assert.Equal(t, []int64{3, 2, 1}, ids)

	hello := posts[2]
	assert.Equal(t, domain.KindPost, hello.Kind)
	assert.Equal(t, "hello-world", hello.Slug)
	assert.Equal(t, "Hello  world", hello.Body)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), hello.PublishDate)
	assert.Equal(t, []string{"Art", "Travel"}, hello.Categories())
	assert.Equal(t, []string{"summer"}, hello.Tags())
	assert.Equal(t, "https://social.example/@me/1", hello.Field("mastodon_url"))
	assert.Equal(t, "", hello.Field("_edit_lock"))

	assert.Equal(t, domain.FormatStatus, posts[1].Format)
	assert.Empty(t, posts[1].Terms)

	assert.True(t, posts[0].IsDraft())
	assert.True(t, posts[0].PublishDate.IsZero())
}

func TestGetRecord(t *testing.T) {
	src := openTestSource(t)

	page, err := src.GetRecord(10)
	require.NoError(t, err)
	assert.Equal(t, domain.KindPage, page.Kind)
	assert.Equal(t, "landing", page.Field("type"))

	_, err = src.GetRecord(999)
	assert.True(t, errors.Is(err, application.ErrNotFound))

	// Attachments are not records
	_, err = src.GetRecord(20)
	assert.True(t, errors.Is(err, application.ErrNotFound))
}

func TestListChildren(t *testing.T) {
	src := openTestSource(t)

	roots, err := src.ListChildren(0)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "contact", roots[0].Slug)
	assert.Equal(t, "about", roots[1].Slug)

	children, err := src.ListChildren(10)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "team", children[0].Slug)
	assert.Equal(t, int64(10), children[0].ParentID)
}

func TestListAttachments_ImagesOnly(t *testing.T) {
	src := openTestSource(t)

	atts, err := src.ListAttachments(1)
	require.NoError(t, err)
	require.Len(t, atts, 1)

	att := atts[0]
	assert.Equal(t, int64(20), att.ID)
	assert.Equal(t, filepath.Join("/srv/wp/wp-content/uploads", "2024", "03", "photo.jpg"), att.FilePath)
	assert.Equal(t, "https://example.com/wp-content/uploads/2024/03/photo.jpg", att.URL)
	assert.Equal(t, "A lake", att.AltText)
	assert.Equal(t, "At the lake", att.Caption)
}

func TestGetAttachment(t *testing.T) {
	src := openTestSource(t)

	att, err := src.GetAttachment(20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), att.ParentID)

	_, err = src.GetAttachment(21)
	assert.True(t, errors.Is(err, application.ErrNotFound), "non-image attachments are not exported")
}

func TestResolveURL(t *testing.T) {
	src := openTestSource(t)

	tests := []struct {
		name string
		url  string
		want int64
	}{
		{"full URL", "https://example.com/wp-content/uploads/2024/03/photo.jpg", 20},
		{"other scheme", "http://example.com/wp-content/uploads/2024/03/photo.jpg", 20},
		{"query string", "https://example.com/wp-content/uploads/2024/03/photo.jpg?ver=2", 20},
		{"percent-escaped name", "https://example.com/wp-content/uploads/2024/03/caf%C3%A9.jpg", 22},
		{"unescaped name", "https://example.com/wp-content/uploads/2024/03/café.jpg", 22},
		{"unknown file", "https://example.com/wp-content/uploads/2024/03/other.jpg", 0},
		{"outside uploads", "https://example.com/about/", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := src.ResolveURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestUploadsURLOverridesGUID(t *testing.T) {
	src, err := Open(setupTestDB(t), Options{
		TablePrefix: "wp_",
		UploadsURL:  "https://cdn.example.com/media/",
	})
	require.NoError(t, err)
	defer src.Close()

	att, err := src.GetAttachment(20)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/2024/03/photo.jpg", att.URL)
	assert.Empty(t, att.FilePath)

	id, err := src.ResolveURL("https://cdn.example.com/media/2024/03/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(20), id)
}

func TestParseDate(t *testing.T) {
	assert.True(t, parseDate("0000-00-00 00:00:00").IsZero())
	assert.True(t, parseDate("").IsZero())
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), parseDate("2024-01-02 03:04:05"))
}
