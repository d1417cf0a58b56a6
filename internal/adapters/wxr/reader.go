// Package wxr loads a WordPress eXtended RSS export file into memory.
package wxr

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wpkirby/internal/adapters/markup"
	"wpkirby/internal/adapters/memstore"
	"wpkirby/internal/domain"
)

const dateLayout = "2006-01-02 15:04:05"

// Elements in the wp: namespace are matched by local name, so files of
// every WXR version (1.0 to 1.2) decode alike.

type rss struct {
	Channel channel `xml:"channel"`
}

type channel struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	BaseSiteURL string `xml:"base_site_url"`
	Items       []item `xml:"item"`
}

type item struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	GUID          string     `xml:"guid"`
	Content       string     `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	Excerpt       string     `xml:"encoded"` // excerpt:encoded, namespace varies by version
	PostID        int64      `xml:"post_id"`
	PostDate      string     `xml:"post_date"`
	PostName      string     `xml:"post_name"`
	Status        string     `xml:"status"`
	PostParent    int64      `xml:"post_parent"`
	MenuOrder     int        `xml:"menu_order"`
	PostType      string     `xml:"post_type"`
	AttachmentURL string     `xml:"attachment_url"`
	Categories    []category `xml:"category"`
	Meta          []postmeta `xml:"postmeta"`
}

type category struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Name     string `xml:",chardata"`
}

type postmeta struct {
	Key   string `xml:"meta_key"`
	Value string `xml:"meta_value"`
}

// Options locates the uploaded files referenced by the export
type Options struct {
	UploadsDir string // local copy of wp-content/uploads
}

var exportedStatuses = map[string]bool{
	domain.StatusPublish: true,
	domain.StatusDraft:   true,
	domain.StatusPrivate: true,
	domain.StatusFuture:  true,
	domain.StatusPending: true,
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".svg":  true,
}

// LoadFile reads the export file at path
func LoadFile(path string, opts Options) (*memstore.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	return Load(f, opts)
}

// Load decodes an export and returns its posts, pages and image
// attachments as a content source
func Load(r io.Reader, opts Options) (*memstore.Store, error) {
	var doc rss
	dec := xml.NewDecoder(r)
	dec.Strict = false
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse export file: %w", err)
	}

	store := memstore.New()
	for i := range doc.Channel.Items {
		it := &doc.Channel.Items[i]

		switch it.PostType {
		case "post", "page":
			if !exportedStatuses[it.Status] {
				continue
			}
			store.AddRecord(toRecord(it))
		case "attachment":
			if att, ok := toAttachment(it, opts); ok {
				store.AddAttachment(att)
			}
		}
	}
	return store, nil
}

func toRecord(it *item) domain.ContentRecord {
	rec := domain.ContentRecord{
		ID:          it.PostID,
		Kind:        domain.ParseRecordKind(it.PostType),
		Slug:        it.PostName,
		Title:       it.Title,
		Body:        domain.StripShortcodes(it.Content),
		PublishDate: parseDate(it.PostDate),
		Status:      it.Status,
		ParentID:    it.PostParent,
		MenuOrder:   it.MenuOrder,
	}

	for _, c := range it.Categories {
		switch c.Domain {
		case domain.TaxonomyPostFormat:
			rec.Format = strings.TrimPrefix(c.Nicename, "post-format-")
		case domain.TaxonomyCategory, domain.TaxonomyTag:
			if rec.Terms == nil {
				rec.Terms = make(map[string][]string)
			}
			rec.Terms[c.Domain] = append(rec.Terms[c.Domain], strings.TrimSpace(c.Name))
		}
	}

	for _, m := range it.Meta {
		if strings.HasPrefix(m.Key, "_") {
			continue
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]string)
		}
		if _, ok := rec.Fields[m.Key]; !ok {
			rec.Fields[m.Key] = m.Value
		}
	}

	return rec
}

func toAttachment(it *item, opts Options) (domain.AttachmentRecord, bool) {
	url := it.AttachmentURL
	if url == "" {
		url = it.GUID
	}
	if !imageExts[strings.ToLower(filepath.Ext(url))] {
		return domain.AttachmentRecord{}, false
	}

	att := domain.AttachmentRecord{
		ID:       it.PostID,
		URL:      url,
		Caption:  it.Excerpt,
		ParentID: it.PostParent,
	}

	for _, m := range it.Meta {
		switch m.Key {
		case "_wp_attached_file":
			if opts.UploadsDir != "" && m.Value != "" {
				att.FilePath = filepath.Join(opts.UploadsDir, filepath.FromSlash(m.Value))
			}
		case "_wp_attachment_image_alt":
			att.AltText = markup.PlainText(m.Value)
		}
	}

	return att, true
}

func parseDate(s string) time.Time {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil || t.Year() < 1 {
		return time.Time{}
	}
	return t
}
