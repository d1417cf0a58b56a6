package domain

import "strings"

// Delimiter separates fields in a text record
const Delimiter = "----"

// Field is a single labelled entry of a text record
type Field struct {
	Label  string
	Value  string
	List   []string
	IsList bool // render List joined with ", " instead of Value
	Always bool // emit even when empty
}

// Scalar creates an optional scalar field
func Scalar(label, value string) Field {
	return Field{Label: label, Value: value}
}

// Required creates a scalar field that is emitted even when empty
func Required(label, value string) Field {
	return Field{Label: label, Value: value, Always: true}
}

// ListField creates a list field that is emitted even when empty
func ListField(label string, values []string) Field {
	return Field{Label: label, List: values, IsList: true, Always: true}
}

func (f Field) text() string {
	if f.IsList {
		return strings.Join(f.List, ", ")
	}
	return f.Value
}

// Record is an ordered list of fields in the Kirby text format
type Record []Field

// Render serializes the record. Empty optional fields are left out
// together with their delimiter line.
func (r Record) Render() string {
	var b strings.Builder
	first := true
	for _, f := range r {
		value := f.text()
		if value == "" && !f.Always {
			continue
		}
		if !first {
			b.WriteString(Delimiter)
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(f.Label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}

// PostRecord builds the journal/status record for a post
func PostRecord(title, published, text string, categories, tags []string, mastodon string) Record {
	return Record{
		Required("Title", title),
		Required("Published", published),
		Required("Text", text),
		ListField("Categories", categories),
		ListField("Tags", tags),
		Scalar("Mastodon", mastodon),
	}
}

// PageRecord builds the default.txt record for a page
func PageRecord(title, published, text, pageType, timeframe string) Record {
	return Record{
		Required("Title", title),
		Required("Published", published),
		Required("Text", text),
		Scalar("Type", pageType),
		Scalar("Timeframe", timeframe),
	}
}

// SidecarRecord builds the metadata file written next to an exported image
func SidecarRecord(alt, caption string) Record {
	return Record{
		Required("Alt", alt),
		Scalar("Caption", caption),
	}
}
