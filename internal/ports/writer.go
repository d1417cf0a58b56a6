package ports

import "wpkirby/internal/domain"

// SiteWriter performs the filesystem mutations of an export run
type SiteWriter interface {
	// EnsureDir creates the directory (and parents) if it does not exist
	EnsureDir(path string) error

	// WriteFile writes data to path, replacing any existing file
	WriteFile(path string, data []byte) error

	// CopyIfAbsent copies src to dst unless dst exists.
	// Returns true if the file was copied.
	CopyIfAbsent(src, dst string) (bool, error)

	// Exists reports whether path exists
	Exists(path string) bool

	// BuildTree returns the exported tree below root
	BuildTree(root string) (*domain.TreeNode, error)
}
