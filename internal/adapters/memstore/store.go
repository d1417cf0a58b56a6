// Package memstore keeps a complete content set in memory. It backs the
// WXR adapter and is convenient for tests.
package memstore

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"wpkirby/internal/application"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// Store implements ports.ContentSource over in-memory records
type Store struct {
	records     map[int64]*domain.ContentRecord
	attachments map[int64]*domain.AttachmentRecord
	uploadsPath string // URL path prefix of uploaded files, e.g. /wp-content/uploads/
}

// Ensure Store implements ContentSource
var _ ports.ContentSource = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{
		records:     make(map[int64]*domain.ContentRecord),
		attachments: make(map[int64]*domain.AttachmentRecord),
		uploadsPath: "/wp-content/uploads/",
	}
}

// AddRecord adds or replaces a post or page
func (s *Store) AddRecord(r domain.ContentRecord) {
	s.records[r.ID] = &r
}

// AddAttachment adds or replaces an attachment
func (s *Store) AddAttachment(a domain.AttachmentRecord) {
	s.attachments[a.ID] = &a
}

// ListPosts returns all posts ordered by publish date, then ID
func (s *Store) ListPosts() ([]domain.ContentRecord, error) {
	var posts []domain.ContentRecord
	for _, r := range s.records {
		if r.Kind == domain.KindPost {
			posts = append(posts, *r)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].PublishDate.Equal(posts[j].PublishDate) {
			return posts[i].PublishDate.Before(posts[j].PublishDate)
		}
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

// GetRecord returns a post or page by ID
func (s *Store) GetRecord(id int64) (*domain.ContentRecord, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, &application.SourceLookupError{Kind: "record", Key: fmt.Sprint(id)}
	}
	rec := *r
	return &rec, nil
}

// ListChildren returns the pages whose parent is parentID, ordered by
// menu order, then slug
func (s *Store) ListChildren(parentID int64) ([]domain.ContentRecord, error) {
	var pages []domain.ContentRecord
	for _, r := range s.records {
		if r.Kind == domain.KindPage && r.ParentID == parentID {
			pages = append(pages, *r)
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].MenuOrder != pages[j].MenuOrder {
			return pages[i].MenuOrder < pages[j].MenuOrder
		}
		if pages[i].Slug != pages[j].Slug {
			return pages[i].Slug < pages[j].Slug
		}
		return pages[i].ID < pages[j].ID
	})
	return pages, nil
}

// ListAttachments returns the attachments uploaded to parentID, ordered by ID
func (s *Store) ListAttachments(parentID int64) ([]domain.AttachmentRecord, error) {
	var atts []domain.AttachmentRecord
	for _, a := range s.attachments {
		if a.ParentID == parentID {
			atts = append(atts, *a)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].ID < atts[j].ID })
	return atts, nil
}

// GetAttachment returns an attachment by ID
func (s *Store) GetAttachment(id int64) (*domain.AttachmentRecord, error) {
	a, ok := s.attachments[id]
	if !ok {
		return nil, &application.SourceLookupError{Kind: "attachment", Key: fmt.Sprint(id)}
	}
	att := *a
	return &att, nil
}

// ResolveURL finds the attachment whose URL, or upload-relative path,
// matches u. Returns 0 if none does.
func (s *Store) ResolveURL(u string) (int64, error) {
	u = unescape(u)
	rel := uploadRelative(u, s.uploadsPath)

	var ids []int64
	for id := range s.attachments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		a := s.attachments[id]
		if unescape(a.URL) == u {
			return id, nil
		}
		if rel != "" && uploadRelative(unescape(a.URL), s.uploadsPath) == rel {
			return id, nil
		}
	}
	return 0, nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

// uploadRelative returns the part of u after the uploads prefix,
// e.g. "2024/01/photo.jpg"
func uploadRelative(u, uploadsPath string) string {
	idx := strings.Index(u, uploadsPath)
	if idx < 0 {
		return ""
	}
	return path.Clean(u[idx+len(uploadsPath):])
}

// unescape decodes percent-escapes, keeping u as is when it is malformed
func unescape(u string) string {
	if d, err := url.PathUnescape(u); err == nil {
		return d
	}
	return u
}
