package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"wpkirby/internal/application"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// PlannedRecord is a record together with the file it is exported to,
// relative to the export root
type PlannedRecord struct {
	Record domain.ContentRecord
	Path   string
	Depth  int
}

// postPath returns the text file of a post relative to the export root
func postPath(blogBase string, rec *domain.ContentRecord) string {
	parts := []string{domain.SanitizeBlogBase(blogBase)}
	if rec.IsDraft() {
		parts = append(parts, domain.DraftsDir)
	}
	parts = append(parts, domain.PostDirName(rec), domain.PostFileName(rec))
	return filepath.Join(parts...)
}

// ListPostsCommand lists all posts with their export paths
type ListPostsCommand struct {
	source   ports.ContentSource
	BlogBase string
}

// NewListPostsCommand creates a new ListPostsCommand
func NewListPostsCommand(source ports.ContentSource, blogBase string) *ListPostsCommand {
	return &ListPostsCommand{
		source:   source,
		BlogBase: blogBase,
	}
}

// Execute runs the list posts command
func (c *ListPostsCommand) Execute(ctx context.Context) ([]PlannedRecord, error) {
	posts, err := c.source.ListPosts()
	if err != nil {
		return nil, err
	}

	planned := make([]PlannedRecord, 0, len(posts))
	for i := range posts {
		planned = append(planned, PlannedRecord{
			Record: posts[i],
			Path:   postPath(c.BlogBase, &posts[i]),
		})
	}
	return planned, nil
}

// ListPagesCommand lists the page hierarchy depth-first, in menu order
type ListPagesCommand struct {
	source   ports.ContentSource
	MaxDepth int
}

// NewListPagesCommand creates a new ListPagesCommand
func NewListPagesCommand(source ports.ContentSource, maxDepth int) *ListPagesCommand {
	return &ListPagesCommand{
		source:   source,
		MaxDepth: maxDepth,
	}
}

// Execute runs the list pages command. Pages reached twice or nested
// beyond MaxDepth are left out.
func (c *ListPagesCommand) Execute(ctx context.Context) ([]PlannedRecord, error) {
	type frame struct {
		rec   domain.ContentRecord
		dir   string
		depth int
	}

	roots, err := c.source.ListChildren(0)
	if err != nil {
		return nil, err
	}

	var stack []frame
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{rec: roots[i]})
	}

	var planned []PlannedRecord
	visited := make(map[int64]bool)
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.rec.ID] || (c.MaxDepth > 0 && f.depth > c.MaxDepth) {
			continue
		}
		visited[f.rec.ID] = true

		dir := filepath.Join(f.dir, domain.PageDirName(&f.rec))
		planned = append(planned, PlannedRecord{
			Record: f.rec,
			Path:   filepath.Join(dir, domain.PageFile),
			Depth:  f.depth,
		})

		children, err := c.source.ListChildren(f.rec.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list children of page %d: %w", f.rec.ID, err)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{rec: children[i], dir: dir, depth: f.depth + 1})
		}
	}

	return planned, nil
}

// LocateResult contains the exported file of a record
type LocateResult struct {
	Record *domain.ContentRecord
	Path   string
}

// LocateRecordCommand finds the exported text file of a post or page
type LocateRecordCommand struct {
	source   ports.ContentSource
	writer   ports.SiteWriter
	Root     string
	BlogBase string
	RecordID int64
	MaxDepth int
}

// NewLocateRecordCommand creates a new LocateRecordCommand
func NewLocateRecordCommand(source ports.ContentSource, writer ports.SiteWriter, root, blogBase string, id int64) *LocateRecordCommand {
	return &LocateRecordCommand{
		source:   source,
		writer:   writer,
		Root:     root,
		BlogBase: blogBase,
		RecordID: id,
		MaxDepth: 32,
	}
}

// Validate checks the command inputs
func (c *LocateRecordCommand) Validate() error {
	if err := application.ValidateRequired("exportRoot", c.Root); err != nil {
		return err
	}
	if c.RecordID <= 0 {
		return &application.ValidationError{
			Field:   "recordID",
			Message: "record ID must be a positive number",
		}
	}
	return nil
}

// Execute resolves the record and checks that its file was exported
func (c *LocateRecordCommand) Execute(ctx context.Context) (*LocateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rec, err := c.source.GetRecord(c.RecordID)
	if err != nil {
		return nil, err
	}

	var rel string
	switch rec.Kind {
	case domain.KindPost:
		rel = postPath(c.BlogBase, rec)
	case domain.KindPage:
		dir, err := c.pageDir(rec)
		if err != nil {
			return nil, err
		}
		rel = filepath.Join(dir, domain.PageFile)
	default:
		return nil, &application.ValidationError{
			Field:   "recordID",
			Message: fmt.Sprintf("record %d is neither a post nor a page", rec.ID),
		}
	}

	path := filepath.Join(c.Root, rel)
	if !c.writer.Exists(path) {
		return nil, &application.SourceLookupError{Kind: "exported file", Key: path}
	}

	return &LocateResult{Record: rec, Path: path}, nil
}

// pageDir joins the folder names of a page and its ancestors
func (c *LocateRecordCommand) pageDir(rec *domain.ContentRecord) (string, error) {
	dirs := []string{domain.PageDirName(rec)}
	seen := map[int64]bool{rec.ID: true}

	for pid := rec.ParentID; pid != 0; {
		if seen[pid] || len(dirs) > c.MaxDepth {
			return "", fmt.Errorf("%w: ancestors of page %d", application.ErrCycle, rec.ID)
		}
		seen[pid] = true

		parent, err := c.source.GetRecord(pid)
		if err != nil {
			return "", err
		}
		dirs = append([]string{domain.PageDirName(parent)}, dirs...)
		pid = parent.ParentID
	}

	return filepath.Join(dirs...), nil
}
