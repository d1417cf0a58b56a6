// Package sqlite reads a WordPress site straight from its database file, as
// kept by the WordPress SQLite Database Integration plugin
// (wp-content/database/.ht.sqlite).
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"wpkirby/internal/adapters/markup"
	"wpkirby/internal/application"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02 15:04:05"

// Statuses worth exporting; trash, auto-draft and inherit are left out
const exportedStatuses = `('publish', 'draft', 'private', 'future', 'pending')`

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Options locates the tables and the uploaded files of a site
type Options struct {
	TablePrefix string // e.g. "wp_"
	UploadsDir  string // wp-content/uploads on disk
	UploadsURL  string // public URL of wp-content/uploads; guid is used when empty
}

// Source implements ports.ContentSource on a WordPress database
type Source struct {
	db          *sql.DB
	prefix      string
	uploadsDir  string
	uploadsURL  string
	uploadsPath string // URL path of the uploads folder, with trailing slash
}

// Ensure Source implements ContentSource
var _ ports.ContentSource = (*Source)(nil)

// Open opens the database at dbPath read-only
func Open(dbPath string, opts Options) (*Source, error) {
	if !prefixPattern.MatchString(opts.TablePrefix) {
		return nil, &application.ValidationError{Field: "table prefix", Message: "may only contain letters, digits and underscores"}
	}

	dbPath = expandHome(dbPath)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas are per connection
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		PRAGMA query_only = ON;
		PRAGMA busy_timeout = 5000;
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	s := &Source{
		db:          db,
		prefix:      opts.TablePrefix,
		uploadsDir:  expandHome(opts.UploadsDir),
		uploadsURL:  strings.TrimRight(opts.UploadsURL, "/"),
		uploadsPath: "/wp-content/uploads/",
	}
	if opts.UploadsURL != "" {
		s.uploadsPath = "/" + strings.Trim(urlPath(opts.UploadsURL), "/") + "/"
	}

	if err := s.db.QueryRow(s.q(`SELECT COUNT(*) FROM {p}posts`)).Scan(new(int)); err != nil {
		db.Close()
		return nil, fmt.Errorf("no WordPress tables with prefix %q: %w", opts.TablePrefix, err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Source) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// q substitutes the table prefix
func (s *Source) q(query string) string {
	return strings.ReplaceAll(query, "{p}", s.prefix)
}

const recordColumns = `ID, post_type, post_name, post_title, post_content, post_date, post_status, post_parent, menu_order`

// ListPosts returns all exportable posts, oldest first
func (s *Source) ListPosts() ([]domain.ContentRecord, error) {
	return s.queryRecords(`
		SELECT `+recordColumns+` FROM {p}posts
		WHERE post_type = 'post' AND post_status IN `+exportedStatuses+`
		ORDER BY post_date, ID
	`)
}

// GetRecord returns a post or page by ID
func (s *Source) GetRecord(id int64) (*domain.ContentRecord, error) {
	records, err := s.queryRecords(`
		SELECT `+recordColumns+` FROM {p}posts
		WHERE ID = ? AND post_type IN ('post', 'page')
	`, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &application.SourceLookupError{Kind: "record", Key: fmt.Sprint(id), Cause: sql.ErrNoRows}
	}
	return &records[0], nil
}

// ListChildren returns the pages below parentID in menu order
func (s *Source) ListChildren(parentID int64) ([]domain.ContentRecord, error) {
	return s.queryRecords(`
		SELECT `+recordColumns+` FROM {p}posts
		WHERE post_type = 'page' AND post_parent = ? AND post_status IN `+exportedStatuses+`
		ORDER BY menu_order, post_name, ID
	`, parentID)
}

func (s *Source) queryRecords(query string, args ...any) ([]domain.ContentRecord, error) {
	rows, err := s.db.Query(s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var records []domain.ContentRecord
	for rows.Next() {
		var (
			rec      domain.ContentRecord
			postType string
			content  string
			date     string
		)
		if err := rows.Scan(&rec.ID, &postType, &rec.Slug, &rec.Title, &content, &date,
			&rec.Status, &rec.ParentID, &rec.MenuOrder); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		rec.Kind = domain.ParseRecordKind(postType)
		rec.Body = domain.StripShortcodes(content)
		rec.PublishDate = parseDate(date)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range records {
		if err := s.loadTerms(&records[i]); err != nil {
			return nil, err
		}
		if err := s.loadFields(&records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Source) loadTerms(rec *domain.ContentRecord) error {
	rows, err := s.db.Query(s.q(`
		SELECT tt.taxonomy, t.name, t.slug
		FROM {p}term_relationships tr
		JOIN {p}term_taxonomy tt ON tt.term_taxonomy_id = tr.term_taxonomy_id
		JOIN {p}terms t ON t.term_id = tt.term_id
		WHERE tr.object_id = ?
		ORDER BY t.name
	`), rec.ID)
	if err != nil {
		return fmt.Errorf("failed to query terms of %d: %w", rec.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var taxonomy, name, slug string
		if err := rows.Scan(&taxonomy, &name, &slug); err != nil {
			return err
		}
		if taxonomy == domain.TaxonomyPostFormat {
			rec.Format = strings.TrimPrefix(slug, "post-format-")
			continue
		}
		if rec.Terms == nil {
			rec.Terms = make(map[string][]string)
		}
		rec.Terms[taxonomy] = append(rec.Terms[taxonomy], name)
	}
	return rows.Err()
}

// loadFields reads the public custom fields; keys starting with _ are
// WordPress-internal
func (s *Source) loadFields(rec *domain.ContentRecord) error {
	rows, err := s.db.Query(s.q(`
		SELECT meta_key, meta_value FROM {p}postmeta
		WHERE post_id = ?
		ORDER BY meta_id
	`), rec.ID)
	if err != nil {
		return fmt.Errorf("failed to query custom fields of %d: %w", rec.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		if strings.HasPrefix(key, "_") {
			continue
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]string)
		}
		// First value wins for repeated keys
		if _, ok := rec.Fields[key]; !ok {
			rec.Fields[key] = value.String
		}
	}
	return rows.Err()
}

const attachmentQuery = `
	SELECT p.ID, p.post_excerpt, p.guid, p.post_parent,
		COALESCE((SELECT meta_value FROM {p}postmeta WHERE post_id = p.ID AND meta_key = '_wp_attached_file' LIMIT 1), ''),
		COALESCE((SELECT meta_value FROM {p}postmeta WHERE post_id = p.ID AND meta_key = '_wp_attachment_image_alt' LIMIT 1), '')
	FROM {p}posts p
	WHERE p.post_type = 'attachment' AND p.post_mime_type LIKE 'image/%'
`

// ListAttachments returns the images uploaded to parentID
func (s *Source) ListAttachments(parentID int64) ([]domain.AttachmentRecord, error) {
	rows, err := s.db.Query(s.q(attachmentQuery+` AND p.post_parent = ? ORDER BY p.ID`), parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var atts []domain.AttachmentRecord
	for rows.Next() {
		att, err := s.scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		atts = append(atts, *att)
	}
	return atts, rows.Err()
}

// GetAttachment returns an image attachment by ID
func (s *Source) GetAttachment(id int64) (*domain.AttachmentRecord, error) {
	row := s.db.QueryRow(s.q(attachmentQuery+` AND p.ID = ?`), id)
	att, err := s.scanAttachment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &application.SourceLookupError{Kind: "attachment", Key: fmt.Sprint(id), Cause: err}
	}
	return att, err
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Source) scanAttachment(row scanner) (*domain.AttachmentRecord, error) {
	var (
		att      domain.AttachmentRecord
		guid     string
		attached string
		alt      string
	)
	if err := row.Scan(&att.ID, &att.Caption, &guid, &att.ParentID, &attached, &alt); err != nil {
		return nil, err
	}

	att.AltText = markup.PlainText(alt)
	att.URL = guid
	if attached != "" {
		if s.uploadsDir != "" {
			att.FilePath = filepath.Join(s.uploadsDir, filepath.FromSlash(attached))
		}
		if s.uploadsURL != "" {
			att.URL = s.uploadsURL + "/" + attached
		}
	}
	return &att, nil
}

// ResolveURL maps the URL of an uploaded file to its attachment ID,
// first by the upload-relative path, then by guid. Returns 0 if nothing
// matches.
func (s *Source) ResolveURL(u string) (int64, error) {
	var id int64
	if d, err := url.PathUnescape(u); err == nil {
		u = d
	}

	if rel := s.uploadRelative(u); rel != "" {
		err := s.db.QueryRow(s.q(`
			SELECT post_id FROM {p}postmeta
			WHERE meta_key = '_wp_attached_file' AND meta_value = ?
			ORDER BY post_id LIMIT 1
		`), rel).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to resolve %s: %w", u, err)
		}
	}

	err := s.db.QueryRow(s.q(`
		SELECT ID FROM {p}posts
		WHERE post_type = 'attachment' AND guid = ?
		ORDER BY ID LIMIT 1
	`), u).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %s: %w", u, err)
	}
	return id, nil
}

// uploadRelative returns the part of u after the uploads folder,
// e.g. "2024/01/photo.jpg"
func (s *Source) uploadRelative(u string) string {
	p := urlPath(u)
	idx := strings.Index(p, s.uploadsPath)
	if idx < 0 {
		return ""
	}
	return path.Clean(p[idx+len(s.uploadsPath):])
}

// urlPath strips scheme, host, query and fragment
func urlPath(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
		if j := strings.Index(u, "/"); j >= 0 {
			return u[j:]
		}
		return "/"
	}
	return u
}

// parseDate reads a post_date column; the zero date means unscheduled
func parseDate(s string) time.Time {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil || t.Year() < 1 {
		return time.Time{}
	}
	return t
}

func expandHome(p string) string {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[1:])
	}
	return p
}
