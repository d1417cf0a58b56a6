package application

import "wpkirby/internal/domain"

// Re-export domain types for use by adapters
type (
	ContentRecord    = domain.ContentRecord
	AttachmentRecord = domain.AttachmentRecord
	RunConfig        = domain.RunConfig
	Summary          = domain.Summary
	TreeNode         = domain.TreeNode
)

// Re-export record kinds for use by adapters
type RecordKind = domain.RecordKind

const (
	KindUnknown = domain.KindUnknown
	KindPost    = domain.KindPost
	KindPage    = domain.KindPage
)

// ParseRecordKind maps a post type name to a RecordKind
func ParseRecordKind(s string) RecordKind {
	return domain.ParseRecordKind(s)
}
