package ports

import "wpkirby/internal/domain"

// ContentSource supplies the records of the content store being exported.
// Get lookups without a match return an error matching application.ErrNotFound.
type ContentSource interface {
	// Record queries
	ListPosts() ([]domain.ContentRecord, error)
	GetRecord(id int64) (*domain.ContentRecord, error)
	ListChildren(parentID int64) ([]domain.ContentRecord, error)

	// Attachment queries
	ListAttachments(parentID int64) ([]domain.AttachmentRecord, error)
	GetAttachment(id int64) (*domain.AttachmentRecord, error)

	// ResolveURL maps a public attachment URL to the attachment ID.
	// Returns 0 when no attachment matches.
	ResolveURL(url string) (int64, error)

	Close() error
}
