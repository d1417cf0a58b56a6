package domain

import (
	"fmt"
	"strings"
	"time"
)

// RunConfig carries the caller-supplied inputs of one export run.
// It is passed by value and never modified after construction.
type RunConfig struct {
	SiteURL    string `validate:"required,url,startswith=http"`
	BlogBase   string `validate:"required"`
	Credential string `validate:"required"`
}

// RecordFailure describes a record that could not be exported
type RecordFailure struct {
	Kind  string // post, page, attachment
	ID    int64
	Label string // slug or file name
	Err   error
}

func (f RecordFailure) String() string {
	return fmt.Sprintf("%s %d (%s): %v", f.Kind, f.ID, f.Label, f.Err)
}

// Summary holds the outcome of an export run
type Summary struct {
	RunID              string
	Started            time.Time
	Duration           time.Duration
	Posts              int
	Drafts             int
	Pages              int
	Attachments        int
	SkippedAttachments int
	Failures           []RecordFailure
	Warnings           []string
	Cancelled          bool
}

// Exported returns the number of posts and pages written
func (s *Summary) Exported() int {
	return s.Posts + s.Drafts + s.Pages
}

// OK reports whether the run completed without failures
func (s *Summary) OK() bool {
	return len(s.Failures) == 0 && !s.Cancelled
}

// String renders the human-readable summary shown after a run
func (s *Summary) String() string {
	var b strings.Builder
	if s.OK() {
		b.WriteString("Export complete.\n")
	} else if s.Cancelled {
		b.WriteString("Export cancelled.\n")
	} else {
		b.WriteString("Export finished with failures.\n")
	}
	fmt.Fprintf(&b, "  run:         %s\n", s.RunID)
	fmt.Fprintf(&b, "  posts:       %d (%d drafts)\n", s.Posts+s.Drafts, s.Drafts)
	fmt.Fprintf(&b, "  pages:       %d\n", s.Pages)
	fmt.Fprintf(&b, "  attachments: %d copied, %d already present\n", s.Attachments, s.SkippedAttachments)
	fmt.Fprintf(&b, "  failed:      %d\n", len(s.Failures))
	if s.Duration > 0 {
		fmt.Fprintf(&b, "  duration:    %s\n", s.Duration.Round(time.Millisecond))
	}
	for _, f := range s.Failures {
		b.WriteString("  ! ")
		b.WriteString(f.String())
		b.WriteByte('\n')
	}
	for _, w := range s.Warnings {
		b.WriteString("  ~ ")
		b.WriteString(w)
		b.WriteByte('\n')
	}
	return b.String()
}
