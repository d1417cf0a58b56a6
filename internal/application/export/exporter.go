// Package export turns the records of a content source into a Kirby
// folder tree.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"wpkirby/internal/application"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// DefaultMaxPageDepth bounds page hierarchy traversal
const DefaultMaxPageDepth = 32

// Options configures an Exporter beyond the caller's RunConfig
type Options struct {
	ExportRoot     string
	MastodonField  string // custom field holding the cross-post URL
	TypeField      string // page custom field rendered as Type
	TimeframeField string // page custom field rendered as Timeframe
	MaxPageDepth   int
	Logger         *log.Logger
}

// DefaultOptions returns the options used when a field is left empty
func DefaultOptions(exportRoot string) Options {
	return Options{
		ExportRoot:     exportRoot,
		MastodonField:  "mastodon_url",
		TypeField:      "type",
		TimeframeField: "timeframe",
		MaxPageDepth:   DefaultMaxPageDepth,
	}
}

// Exporter writes posts, pages and attachments into the export root
type Exporter struct {
	source ports.ContentSource
	writer ports.SiteWriter
	editor ports.TagEditor
	auth   ports.Authorizer
	cfg    domain.RunConfig
	opts   Options
	log    *log.Logger

	site     *url.URL
	blogBase string
	rewriter *Rewriter
	summary  *domain.Summary
	handled  map[string]bool // attachment destinations seen in this run
}

// New creates an exporter for one run configuration
func New(source ports.ContentSource, writer ports.SiteWriter, editor ports.TagEditor,
	auth ports.Authorizer, cfg domain.RunConfig, opts Options) *Exporter {
	defaults := DefaultOptions(opts.ExportRoot)
	if opts.MastodonField == "" {
		opts.MastodonField = defaults.MastodonField
	}
	if opts.TypeField == "" {
		opts.TypeField = defaults.TypeField
	}
	if opts.TimeframeField == "" {
		opts.TimeframeField = defaults.TimeframeField
	}
	if opts.MaxPageDepth <= 0 {
		opts.MaxPageDepth = defaults.MaxPageDepth
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	e := &Exporter{
		source:   source,
		writer:   writer,
		editor:   editor,
		auth:     auth,
		cfg:      cfg,
		opts:     opts,
		log:      logger,
		blogBase: domain.SanitizeBlogBase(cfg.BlogBase),
		summary:  &domain.Summary{},
		handled:  make(map[string]bool),
	}

	if site, err := url.Parse(cfg.SiteURL); err == nil {
		e.site = site
	} else {
		e.site = &url.URL{}
	}
	e.rewriter = NewRewriter(editor, source, e.site, e.exportAttachmentRecorded, e.warn)

	return e
}

// Check reports whether the run may start. It validates the configuration
// and the credential without touching the filesystem.
func (e *Exporter) Check() error {
	if err := application.ValidateRequired("exportRoot", e.opts.ExportRoot); err != nil {
		return err
	}
	if err := application.ValidateRunConfig(e.cfg); err != nil {
		return err
	}
	if e.auth == nil {
		return &application.AuthorizationError{Reason: "no authorizer configured"}
	}
	return e.auth.Authorize(e.cfg.Credential)
}

// PostsRoot returns the folder that holds published posts
func (e *Exporter) PostsRoot() string {
	return filepath.Join(e.opts.ExportRoot, e.blogBase)
}

// DraftsRoot returns the folder that holds draft and private posts
func (e *Exporter) DraftsRoot() string {
	return filepath.Join(e.PostsRoot(), domain.DraftsDir)
}

// Run exports all posts, then the page hierarchy. Record failures are
// collected in the summary; only authorization, preparing the export root
// and listing the content abort the run. A cancelled context stops the run
// between records.
func (e *Exporter) Run(ctx context.Context) (*domain.Summary, error) {
	if err := e.Check(); err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	e.summary = summary
	e.handled = make(map[string]bool)
	defer func() {
		summary.Duration = time.Since(summary.Started)
	}()

	e.log.Printf("export %s: %s -> %s", summary.RunID, e.cfg.SiteURL, e.opts.ExportRoot)

	for _, dir := range []string{e.opts.ExportRoot, e.PostsRoot(), e.DraftsRoot()} {
		if err := e.writer.EnsureDir(dir); err != nil {
			return summary, &application.DirectoryCreationError{Path: dir, Cause: err}
		}
	}

	posts, err := e.source.ListPosts()
	if err != nil {
		return summary, fmt.Errorf("failed to list posts: %w", err)
	}

	for i := range posts {
		if err := ctx.Err(); err != nil {
			summary.Cancelled = true
			return summary, err
		}
		post := &posts[i]
		if err := e.ExportPost(post, e.PostsRoot(), e.DraftsRoot()); err != nil {
			e.fail("post", post.ID, domain.SlugOrID(post.Slug, post.ID), err)
		}
	}

	pages, err := e.source.ListChildren(0)
	if err != nil {
		return summary, fmt.Errorf("failed to list pages: %w", err)
	}

	for i := range pages {
		page := &pages[i]
		if err := e.exportPageTree(ctx, page, e.opts.ExportRoot); err != nil {
			if ctx.Err() != nil {
				summary.Cancelled = true
				return summary, ctx.Err()
			}
			e.fail("page", page.ID, domain.SlugOrID(page.Slug, page.ID), err)
		}
	}

	e.log.Printf("export %s: %d records, %d failed", summary.RunID, summary.Exported(), len(summary.Failures))
	return summary, nil
}

// Summary returns the counters of the current or last run
func (e *Exporter) Summary() *domain.Summary {
	return e.summary
}

// ExportPost writes one post into <root>/<YYYYMMDD>_<slug>/, below
// draftsRoot for draft and private posts.
func (e *Exporter) ExportPost(rec *domain.ContentRecord, postsRoot, draftsRoot string) error {
	parent := postsRoot
	if rec.IsDraft() {
		parent = draftsRoot
	}

	dir := filepath.Join(parent, domain.PostDirName(rec))
	if err := e.writer.EnsureDir(dir); err != nil {
		return &application.DirectoryCreationError{Path: dir, Cause: err}
	}

	target := domain.ExportTarget{
		Dir: dir,
		URL: domain.JoinURL(e.cfg.SiteURL, e.blogBase, domain.SlugOrID(rec.Slug, rec.ID)),
	}

	e.exportAttachedMedia(rec, dir)

	body, err := e.rewriter.Rewrite(rec.Body, target)
	if err != nil {
		return fmt.Errorf("failed to rewrite body: %w", err)
	}

	record := domain.PostRecord(
		rec.Title,
		domain.FormatPublished(rec.PublishDate),
		body,
		rec.Categories(),
		rec.Tags(),
		rec.Field(e.opts.MastodonField),
	)

	path := filepath.Join(dir, domain.PostFileName(rec))
	if err := e.writer.WriteFile(path, []byte(record.Render())); err != nil {
		return &application.SerializationWriteError{Path: path, Cause: err}
	}

	if rec.IsDraft() {
		e.summary.Drafts++
	} else {
		e.summary.Posts++
	}
	e.log.Printf("post %d -> %s", rec.ID, path)
	return nil
}

// ExportPage writes a page into <parentDir>/<menu_order>_<slug>/ and its
// descendants into nested folders. Failures below the page are recorded in
// the summary; the returned error concerns the page itself.
func (e *Exporter) ExportPage(rec *domain.ContentRecord, parentDir string) error {
	return e.exportPageTree(context.Background(), rec, parentDir)
}

type pageFrame struct {
	rec       domain.ContentRecord
	parentDir string
	urlPath   string // slugs of the ancestors, slash-separated
	depth     int
}

func (e *Exporter) exportPageTree(ctx context.Context, root *domain.ContentRecord, parentDir string) error {
	stack := []pageFrame{{
		rec:       *root,
		parentDir: parentDir,
		urlPath:   e.ancestorPath(root),
	}}
	visited := make(map[int64]bool)

	var rootErr error
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		label := domain.SlugOrID(f.rec.Slug, f.rec.ID)

		if visited[f.rec.ID] {
			e.fail("page", f.rec.ID, label, fmt.Errorf("%w: page %d reached twice", application.ErrCycle, f.rec.ID))
			continue
		}
		visited[f.rec.ID] = true

		if f.depth > e.opts.MaxPageDepth {
			e.fail("page", f.rec.ID, label, fmt.Errorf("page nested deeper than %d levels", e.opts.MaxPageDepth))
			continue
		}

		dir, urlPath, err := e.writePage(&f.rec, f.parentDir, f.urlPath)
		if err != nil {
			if f.depth == 0 {
				rootErr = err
			} else {
				e.fail("page", f.rec.ID, label, err)
			}
			if dir == "" {
				continue
			}
		}

		children, err := e.source.ListChildren(f.rec.ID)
		if err != nil {
			e.fail("page", f.rec.ID, label, fmt.Errorf("failed to list child pages: %w", err))
			continue
		}

		// Push in reverse so children are exported in menu order
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, pageFrame{
				rec:       children[i],
				parentDir: dir,
				urlPath:   urlPath,
				depth:     f.depth + 1,
			})
		}
	}

	return rootErr
}

// writePage exports a single page. The returned dir is set once the page
// folder exists, even if writing the text file failed.
func (e *Exporter) writePage(rec *domain.ContentRecord, parentDir, parentPath string) (string, string, error) {
	dir := filepath.Join(parentDir, domain.PageDirName(rec))
	if err := e.writer.EnsureDir(dir); err != nil {
		return "", "", &application.DirectoryCreationError{Path: dir, Cause: err}
	}

	urlPath := strings.Trim(parentPath+"/"+domain.SlugOrID(rec.Slug, rec.ID), "/")
	target := domain.ExportTarget{
		Dir: dir,
		URL: domain.JoinURL(e.cfg.SiteURL, urlPath),
	}

	body, err := e.rewriter.Rewrite(rec.Body, target)
	if err != nil {
		return dir, urlPath, fmt.Errorf("failed to rewrite body: %w", err)
	}

	record := domain.PageRecord(
		rec.Title,
		domain.FormatPublished(rec.PublishDate),
		body,
		rec.Field(e.opts.TypeField),
		rec.Field(e.opts.TimeframeField),
	)

	path := filepath.Join(dir, domain.PageFile)
	if err := e.writer.WriteFile(path, []byte(record.Render())); err != nil {
		return dir, urlPath, &application.SerializationWriteError{Path: path, Cause: err}
	}

	e.summary.Pages++
	e.log.Printf("page %d -> %s", rec.ID, path)
	return dir, urlPath, nil
}

// ancestorPath walks the parent chain of a page and joins the ancestor slugs
func (e *Exporter) ancestorPath(rec *domain.ContentRecord) string {
	var slugs []string
	seen := map[int64]bool{rec.ID: true}

	for pid := rec.ParentID; pid != 0; {
		if seen[pid] || len(slugs) >= e.opts.MaxPageDepth {
			e.warn(fmt.Errorf("%w: ancestors of page %d", application.ErrCycle, rec.ID))
			break
		}
		seen[pid] = true

		parent, err := e.source.GetRecord(pid)
		if err != nil {
			e.warn(err)
			break
		}
		slugs = append(slugs, domain.SlugOrID(parent.Slug, parent.ID))
		pid = parent.ParentID
	}

	for i, j := 0, len(slugs)-1; i < j; i, j = i+1, j-1 {
		slugs[i], slugs[j] = slugs[j], slugs[i]
	}
	return strings.Join(slugs, "/")
}

// ExportAttachment copies an attachment into destDir and writes its sidecar.
// Nothing happens if a file of the same name is already there.
// Returns true if the file was copied.
func (e *Exporter) ExportAttachment(att *domain.AttachmentRecord, destDir string) (bool, error) {
	if att.FilePath == "" {
		return false, &application.SourceLookupError{Kind: "file of attachment", Key: fmt.Sprint(att.ID)}
	}

	base := filepath.Base(att.FilePath)
	dst := filepath.Join(destDir, base)

	copied, err := e.writer.CopyIfAbsent(att.FilePath, dst)
	if err != nil {
		return false, &application.SerializationWriteError{Path: dst, Cause: err}
	}
	if !copied {
		e.summary.SkippedAttachments++
		return false, nil
	}

	sidecar := filepath.Join(destDir, domain.SidecarName(base))
	record := domain.SidecarRecord(att.AltText, att.Caption)
	if err := e.writer.WriteFile(sidecar, []byte(record.Render())); err != nil {
		return true, &application.SerializationWriteError{Path: sidecar, Cause: err}
	}

	e.summary.Attachments++
	e.log.Printf("attachment %d -> %s", att.ID, dst)
	return true, nil
}

// exportAttachedMedia exports the images uploaded to a record
func (e *Exporter) exportAttachedMedia(rec *domain.ContentRecord, dir string) {
	atts, err := e.source.ListAttachments(rec.ID)
	if err != nil {
		e.warn(fmt.Errorf("failed to list attachments of %d: %w", rec.ID, err))
		return
	}
	for i := range atts {
		e.exportAttachmentRecorded(&atts[i], dir)
	}
}

// exportAttachmentRecorded exports an attachment, recording failures.
// An attachment already handled for dir in this run, e.g. attached media
// that is also embedded in the body, is not exported or counted again.
func (e *Exporter) exportAttachmentRecorded(att *domain.AttachmentRecord, dir string) {
	key := filepath.Join(dir, filepath.Base(att.FilePath))
	if att.FilePath != "" {
		if e.handled[key] {
			return
		}
		e.handled[key] = true
	}

	if _, err := e.ExportAttachment(att, dir); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			e.warn(err)
			return
		}
		e.fail("attachment", att.ID, filepath.Base(att.FilePath), err)
	}
}

func (e *Exporter) fail(kind string, id int64, label string, err error) {
	e.summary.Failures = append(e.summary.Failures, domain.RecordFailure{
		Kind:  kind,
		ID:    id,
		Label: label,
		Err:   err,
	})
	e.log.Printf("failed to export %s %d (%s): %v", kind, id, label, err)
}

func (e *Exporter) warn(err error) {
	e.summary.Warnings = append(e.summary.Warnings, err.Error())
	e.log.Printf("warning: %v", err)
}
