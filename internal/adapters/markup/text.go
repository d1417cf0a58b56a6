package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText reduces a fragment to its trimmed text content
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

// ImageSources returns the src attribute of every img in the fragment,
// in document order. Images without src are skipped.
func ImageSources(fragment string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var sources []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			sources = append(sources, src)
		}
	})
	return sources, nil
}
