package domain

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// File names used in the export tree
const (
	JournalFile = "journal.txt"
	StatusFile  = "status.txt"
	PageFile    = "default.txt"
	DraftsDir   = "_drafts"
	SidecarExt  = ".txt"
)

// PublishedLayout is the date format written into Published fields
const PublishedLayout = "2006-01-02 15:04:05"

// ExportTarget is a record's output directory and its public URL
type ExportTarget struct {
	Dir string
	URL string
}

// SlugOrID returns the slug, or the numeric ID when the slug is empty
func SlugOrID(slug string, id int64) string {
	if slug != "" {
		return slug
	}
	return strconv.FormatInt(id, 10)
}

// PostDirName returns the folder name for a post: YYYYMMDD_<slug>
func PostDirName(r *ContentRecord) string {
	return r.PublishDate.Format("20060102") + "_" + SlugOrID(r.Slug, r.ID)
}

// PageDirName returns the folder name for a page: <menu_order>_<slug>
func PageDirName(r *ContentRecord) string {
	return fmt.Sprintf("%d_%s", r.MenuOrder, SlugOrID(r.Slug, r.ID))
}

// PostFileName selects the text file for a post based on its format
func PostFileName(r *ContentRecord) string {
	if r.Format == FormatStatus {
		return StatusFile
	}
	return JournalFile
}

// FormatPublished renders a publish date for the Published field
func FormatPublished(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(PublishedLayout)
}

// SidecarName returns the metadata file name for an exported file
func SidecarName(basename string) string {
	return basename + SidecarExt
}

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeBlogBase strips path-unsafe characters from the blog base segment
func SanitizeBlogBase(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = unsafePathChars.ReplaceAllString(s, "")
	return strings.TrimLeft(s, ".-")
}

// JoinURL appends path segments to a base URL with single slashes
func JoinURL(base string, segments ...string) string {
	out := strings.TrimRight(base, "/")
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg == "" {
			continue
		}
		out += "/" + seg
	}
	return out
}

// Size suffix of generated thumbnails: photo-300x200.jpg, photo_300x200.jpg
var sizeSuffix = regexp.MustCompile(`[-_]\d+x\d+(\.[A-Za-z0-9]+)$`)

// StripSizeSuffix recovers the original file name from a thumbnail name.
// Names without a size suffix are returned unchanged.
func StripSizeSuffix(name string) string {
	return sizeSuffix.ReplaceAllString(name, "$1")
}

// StripSizeSuffixURL applies StripSizeSuffix to the last path element of u
func StripSizeSuffixURL(u string) string {
	dir, file := path.Split(u)
	return dir + StripSizeSuffix(file)
}

// Shortcodes: [gallery ids="1,2"], [/caption], [embed]...[/embed] tags
var shortcodePattern = regexp.MustCompile(`\[/?[A-Za-z][A-Za-z0-9_-]*(?:\s[^\]]*)?/?\]`)

// StripShortcodes removes shortcode tags from a body, keeping enclosed content
func StripShortcodes(body string) string {
	return shortcodePattern.ReplaceAllString(body, "")
}
