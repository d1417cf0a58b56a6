// Package markup edits tag attributes of HTML fragments in a single
// streaming pass.
package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"wpkirby/internal/ports"
)

// Editor implements ports.TagEditor on top of the html tokenizer
type Editor struct{}

// Ensure Editor implements TagEditor
var _ ports.TagEditor = (*Editor)(nil)

// NewEditor creates a new tag editor
func NewEditor() *Editor {
	return &Editor{}
}

// Edit calls edit for every start or self-closing tag whose name is in tags.
// Tags the callback leaves unchanged, and all other tokens, are copied
// verbatim from the input.
func (e *Editor) Edit(fragment string, tags []string, edit func(ports.TagAttributes)) (string, error) {
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[strings.ToLower(t)] = true
	}

	var b strings.Builder
	b.Grow(len(fragment))

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		// Copy before Token(), which lowercases the buffer in place
		raw := string(z.Raw())

		if tt == html.ErrorToken {
			b.WriteString(raw)
			if errors.Is(z.Err(), io.EOF) {
				return b.String(), nil
			}
			return "", fmt.Errorf("failed to tokenize fragment: %w", z.Err())
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			b.WriteString(raw)
			continue
		}

		tok := z.Token()
		if !want[tok.Data] {
			b.WriteString(raw)
			continue
		}

		tag := &Tag{name: tok.Data, attrs: tok.Attr}
		edit(tag)
		if !tag.dirty {
			b.WriteString(raw)
			continue
		}
		b.WriteString(tag.render(tt == html.SelfClosingTagToken, raw))
	}
}

// Tag is one tag occurrence handed to an edit callback
type Tag struct {
	name  string
	attrs []html.Attribute
	dirty bool
}

// Ensure Tag implements TagAttributes
var _ ports.TagAttributes = (*Tag)(nil)

// Name returns the lowercase tag name
func (t *Tag) Name() string {
	return t.name
}

// Get returns the unescaped value of an attribute
func (t *Tag) Get(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, a := range t.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Set replaces or appends an attribute
func (t *Tag) Set(key, value string) {
	key = strings.ToLower(key)
	for i, a := range t.attrs {
		if a.Key == key {
			if a.Val != value {
				t.attrs[i].Val = value
				t.dirty = true
			}
			return
		}
	}
	t.attrs = append(t.attrs, html.Attribute{Key: key, Val: value})
	t.dirty = true
}

// Remove deletes the named attributes if present
func (t *Tag) Remove(keys ...string) {
	deny := make(map[string]bool, len(keys))
	for _, k := range keys {
		deny[strings.ToLower(k)] = true
	}
	t.RemoveFunc(func(key string) bool { return deny[key] })
}

// RemoveFunc deletes every attribute whose key matches
func (t *Tag) RemoveFunc(match func(key string) bool) {
	kept := t.attrs[:0]
	for _, a := range t.attrs {
		if match(a.Key) {
			t.dirty = true
			continue
		}
		kept = append(kept, a)
	}
	t.attrs = kept
}

// render serializes a modified tag, keeping the void/self-closing form of raw
func (t *Tag) render(selfClosing bool, raw string) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(t.name)
	for _, a := range t.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	if selfClosing {
		if strings.HasSuffix(raw, " />") {
			b.WriteString(" /")
		} else {
			b.WriteByte('/')
		}
	}
	b.WriteByte('>')
	return b.String()
}
