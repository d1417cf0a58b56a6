package domain

import (
	"strings"
	"testing"
	"time"
)

func TestPostRecord_MandatoryFieldsOnly(t *testing.T) {
	got := PostRecord("Hello", "2024-03-05 10:00:00", "<p>Hi</p>", nil, nil, "").Render()

	want := "Title: Hello\n" +
		"----\n" +
		"Published: 2024-03-05 10:00:00\n" +
		"----\n" +
		"Text: <p>Hi</p>\n" +
		"----\n" +
		"Categories: \n" +
		"----\n" +
		"Tags: \n"

	if got != want {
		t.Errorf("unexpected record:\n%s\nwant:\n%s", got, want)
	}
}

func TestPostRecord_WithListsAndMastodon(t *testing.T) {
	got := PostRecord("Hello", "2024-03-05 10:00:00", "Body",
		[]string{"Travel", "Photos"}, []string{"berlin"}, "https://mastodon.social/@me/1").Render()

	if !strings.Contains(got, "Categories: Travel, Photos\n") {
		t.Errorf("categories not joined: %s", got)
	}
	if !strings.Contains(got, "Tags: berlin\n----\nMastodon: https://mastodon.social/@me/1\n") {
		t.Errorf("mastodon field not appended after tags: %s", got)
	}
	if strings.HasSuffix(got, Delimiter+"\n") {
		t.Errorf("record must not end with a delimiter line")
	}
}

func TestPageRecord_OptionalFields(t *testing.T) {
	without := PageRecord("About", "2020-01-01 00:00:00", "Text", "", "").Render()
	if strings.Count(without, Delimiter) != 2 {
		t.Errorf("expected 2 delimiters without optional fields, got:\n%s", without)
	}
	if strings.Contains(without, "Type:") || strings.Contains(without, "Timeframe:") {
		t.Errorf("empty optional fields must be omitted:\n%s", without)
	}

	with := PageRecord("Work", "2020-01-01 00:00:00", "Text", "project", "2019-2020").Render()
	if !strings.HasSuffix(with, "Type: project\n----\nTimeframe: 2019-2020\n") {
		t.Errorf("unexpected page record:\n%s", with)
	}

	onlyTimeframe := PageRecord("Work", "p", "t", "", "2019").Render()
	if !strings.HasSuffix(onlyTimeframe, "Text: t\n----\nTimeframe: 2019\n") {
		t.Errorf("skipped field must not leave a blank delimiter:\n%s", onlyTimeframe)
	}
}

func TestSidecarRecord(t *testing.T) {
	tests := []struct {
		name    string
		alt     string
		caption string
		want    string
	}{
		{"alt and caption", "A dog", "Our dog", "Alt: A dog\n----\nCaption: Our dog\n"},
		{"empty caption omitted", "A dog", "", "Alt: A dog\n"},
		{"empty alt always emitted", "", "", "Alt: \n"},
		{"empty alt with caption", "", "Nice", "Alt: \n----\nCaption: Nice\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SidecarRecord(tt.alt, tt.caption).Render(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContentRecordTerms(t *testing.T) {
	rec := ContentRecord{
		Terms: map[string][]string{
			TaxonomyCategory: {"Zeta", "Alpha"},
			TaxonomyTag:      {"b", "a"},
		},
	}

	cats := rec.Categories()
	if len(cats) != 2 || cats[0] != "Alpha" || cats[1] != "Zeta" {
		t.Errorf("categories not sorted: %v", cats)
	}

	tags := rec.Tags()
	if strings.Join(tags, ",") != "a,b" {
		t.Errorf("tags not sorted: %v", tags)
	}

	// Sorting must not reorder the source slice
	if rec.Terms[TaxonomyCategory][0] != "Zeta" {
		t.Errorf("source terms were mutated")
	}

	empty := ContentRecord{}
	if len(empty.Categories()) != 0 {
		t.Errorf("expected no categories")
	}
}

func TestSummaryString(t *testing.T) {
	s := &Summary{RunID: "abc", Posts: 2, Drafts: 1, Pages: 3, Attachments: 4, SkippedAttachments: 1, Duration: time.Second}
	out := s.String()

	if !strings.HasPrefix(out, "Export complete.") {
		t.Errorf("expected success headline, got:\n%s", out)
	}
	if !strings.Contains(out, "posts:       3 (1 drafts)") {
		t.Errorf("unexpected posts line:\n%s", out)
	}
	if s.Exported() != 6 {
		t.Errorf("expected 6 exported records, got %d", s.Exported())
	}

	s.Failures = append(s.Failures, RecordFailure{Kind: "post", ID: 9, Label: "broken", Err: errTest})
	if s.OK() {
		t.Errorf("summary with failures must not be OK")
	}
	if !strings.Contains(s.String(), "post 9 (broken): boom") {
		t.Errorf("failure line missing:\n%s", s.String())
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
