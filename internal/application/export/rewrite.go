package export

import (
	"net/url"
	"path"
	"strings"

	"wpkirby/internal/application"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// Attributes dropped from every img: lazy-loading, responsive-image and
// lightbox hints, styling classes and WordPress-internal ids
var imageDenylist = []string{
	"class",
	"id",
	"decoding",
	"loading",
	"fetchpriority",
	"srcset",
	"sizes",
	"data-id",
	"data-attachment-id",
	"data-permalink",
	"data-orig-file",
	"data-orig-size",
	"data-image-meta",
	"data-medium-file",
	"data-large-file",
	"data-lazy-src",
	"data-lazy-srcset",
}

// Block markup cleaned of presentational attributes
var cleanupTags = []string{"figure", "hr", "ul", "h3"}

var cleanupDenylist = []string{"class"}

// isInteractivityAttr matches data-wp-* interactivity directives
func isInteractivityAttr(key string) bool {
	return strings.HasPrefix(key, "data-wp-")
}

// Rewriter rewrites a record body for the export tree: local images are
// pointed at the record folder and copied there, and presentational
// attributes are stripped.
type Rewriter struct {
	editor ports.TagEditor
	source ports.ContentSource
	site   *url.URL

	exportAttachment func(att *domain.AttachmentRecord, dir string)
	warn             func(err error)
}

// NewRewriter creates a rewriter for images hosted on site.
// exportAttachment is called for every resolved local image; warn receives
// recoverable lookup failures. Either may be nil.
func NewRewriter(editor ports.TagEditor, source ports.ContentSource, site *url.URL,
	exportAttachment func(att *domain.AttachmentRecord, dir string), warn func(err error)) *Rewriter {
	if exportAttachment == nil {
		exportAttachment = func(*domain.AttachmentRecord, string) {}
	}
	if warn == nil {
		warn = func(error) {}
	}
	return &Rewriter{
		editor:           editor,
		source:           source,
		site:             site,
		exportAttachment: exportAttachment,
		warn:             warn,
	}
}

// Rewrite returns the body with all attribute edits applied
func (r *Rewriter) Rewrite(body string, target domain.ExportTarget) (string, error) {
	tags := append([]string{"img"}, cleanupTags...)
	return r.editor.Edit(body, tags, func(tag ports.TagAttributes) {
		if tag.Name() == "img" {
			r.rewriteImage(tag, target)
			return
		}
		tag.Remove(cleanupDenylist...)
		tag.RemoveFunc(isInteractivityAttr)
	})
}

func (r *Rewriter) rewriteImage(tag ports.TagAttributes, target domain.ExportTarget) {
	tag.Remove(imageDenylist...)
	tag.RemoveFunc(isInteractivityAttr)

	src, ok := tag.Get("src")
	if !ok || strings.TrimSpace(src) == "" {
		return
	}

	u, ok := r.localURL(src)
	if !ok {
		return
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.Path = domain.StripSizeSuffixURL(u.Path)
	u.RawPath = ""

	// Sources store upload paths unescaped
	r.exportImage(u.Scheme+"://"+u.Host+u.Path, target.Dir)

	tag.Set("src", domain.JoinURL(target.URL, path.Base(u.EscapedPath())))
}

// localURL qualifies site-relative paths and reports whether src is hosted
// on the site
func (r *Rewriter) localURL(src string) (*url.URL, bool) {
	src = strings.TrimSpace(src)
	u, err := url.Parse(src)
	if err != nil {
		return nil, false
	}

	switch {
	case strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//"):
		u = r.site.ResolveReference(u)
	case u.Host == "":
		return nil, false
	}

	if !strings.EqualFold(u.Hostname(), r.site.Hostname()) {
		return nil, false
	}
	if u.Scheme == "" {
		u.Scheme = r.site.Scheme
	}
	return u, true
}

// exportImage resolves the original upload behind u and exports it into dir.
// A failed lookup leaves the rewritten src in place without a local copy.
func (r *Rewriter) exportImage(u, dir string) {
	id, err := r.source.ResolveURL(u)
	if err != nil || id == 0 {
		r.warn(&application.SourceLookupError{Kind: "attachment for", Key: u, Cause: err})
		return
	}

	att, err := r.source.GetAttachment(id)
	if err != nil {
		r.warn(err)
		return
	}

	r.exportAttachment(att, dir)
}
