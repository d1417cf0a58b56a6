package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// Writer implements ports.SiteWriter using the local filesystem
type Writer struct{}

// Ensure Writer implements SiteWriter
var _ ports.SiteWriter = (*Writer)(nil)

// NewWriter creates a new filesystem writer
func NewWriter() *Writer {
	return &Writer{}
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// EnsureDir creates path and any missing parents
func (w *Writer) EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", path)
		}
		return nil
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// WriteFile writes data to path, replacing any existing file
func (w *Writer) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Exists reports whether path exists
func (w *Writer) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CopyIfAbsent copies src to dst unless dst already exists.
// The first writer wins; existing files are never compared or replaced.
func (w *Writer) CopyIfAbsent(src, dst string) (bool, error) {
	if w.Exists(dst) {
		return false, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return false, fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return false, fmt.Errorf("failed to copy file: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(dst)
		return false, fmt.Errorf("failed to close destination file: %w", err)
	}

	return true, nil
}

// BuildTree builds the complete tree of an export root
func (w *Writer) BuildTree(root string) (*domain.TreeNode, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read export root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("export root %s is not a directory", root)
	}

	node := &domain.TreeNode{
		Name:  filepath.Base(root),
		Path:  root,
		IsDir: true,
	}
	if err := w.loadChildren(node); err != nil {
		return nil, err
	}
	return node, nil
}

// loadChildren reads a directory recursively, directories first then files
func (w *Writer) loadChildren(node *domain.TreeNode) error {
	entries, err := os.ReadDir(node.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", node.Path, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		child := &domain.TreeNode{
			Name:   entry.Name(),
			Path:   filepath.Join(node.Path, entry.Name()),
			IsDir:  entry.IsDir(),
			Parent: node,
		}
		if child.IsDir {
			if err := w.loadChildren(child); err != nil {
				return err
			}
		}
		node.Children = append(node.Children, child)
	}

	return nil
}

// FindDir searches below root for a directory with the given name
func (w *Writer) FindDir(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() && d.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no folder named %s below %s", name, root)
	}
	return found, nil
}
