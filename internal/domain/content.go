package domain

import (
	"sort"
	"time"
)

// RecordKind distinguishes posts from pages
type RecordKind int

const (
	KindUnknown RecordKind = iota
	KindPost
	KindPage
)

// String returns the human-readable name of the kind
func (k RecordKind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindPage:
		return "page"
	default:
		return "unknown"
	}
}

// ParseRecordKind maps a WordPress post_type to a RecordKind
func ParseRecordKind(s string) RecordKind {
	switch s {
	case "post":
		return KindPost
	case "page":
		return KindPage
	default:
		return KindUnknown
	}
}

// Publication statuses as stored by WordPress
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
	StatusPrivate = "private"
	StatusFuture  = "future"
	StatusPending = "pending"
)

// Taxonomy names
const (
	TaxonomyCategory   = "category"
	TaxonomyTag        = "post_tag"
	TaxonomyPostFormat = "post_format"
)

// FormatStatus is the post format that selects status.txt
const FormatStatus = "status"

// ContentRecord is a post or page supplied by a ContentSource.
// The exporter never mutates it.
type ContentRecord struct {
	ID          int64
	Kind        RecordKind
	Slug        string
	Title       string
	Body        string // Rendered HTML, shortcodes already stripped
	PublishDate time.Time
	Status      string
	Format      string              // e.g. "status"; empty for standard posts
	Terms       map[string][]string // taxonomy -> term names
	Fields      map[string]string   // custom fields
	ParentID    int64               // pages only
	MenuOrder   int                 // pages only
}

// IsDraft reports whether the record belongs in the drafts subtree
func (r *ContentRecord) IsDraft() bool {
	return r.Status == StatusDraft || r.Status == StatusPrivate
}

// Categories returns the record's category names, sorted
func (r *ContentRecord) Categories() []string {
	return r.termList(TaxonomyCategory)
}

// Tags returns the record's tag names, sorted
func (r *ContentRecord) Tags() []string {
	return r.termList(TaxonomyTag)
}

// Field returns a custom field value, or "" if absent
func (r *ContentRecord) Field(key string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[key]
}

func (r *ContentRecord) termList(taxonomy string) []string {
	terms := append([]string(nil), r.Terms[taxonomy]...)
	sort.Strings(terms)
	return terms
}

// AttachmentRecord is an uploaded media file
type AttachmentRecord struct {
	ID       int64
	FilePath string // Absolute path of the original file on disk
	URL      string // Public URL of the original file
	AltText  string
	Caption  string
	ParentID int64
}
