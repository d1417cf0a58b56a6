package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"wpkirby/internal/adapters/tui/styles"
	"wpkirby/internal/domain"
)

// SummaryKeyMap defines key bindings for the summary view
type SummaryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var SummaryKeys = SummaryKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "previous page"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c", "y"),
		key.WithHelp("c", "copy summary"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "enter"),
		key.WithHelp("q", "quit"),
	),
}

// SummaryModel shows the outcome of a run with a scrollable list of
// failures and warnings
type SummaryModel struct {
	ViewState
	summary   *domain.Summary
	err       error
	lines     []string
	failures  int
	paginator *Paginator

	// copy writes to the system clipboard; replaced in tests
	copy func(string) error
}

// NewSummaryModel creates a new summary view model
func NewSummaryModel() *SummaryModel {
	return &SummaryModel{
		paginator: NewPaginator(10),
		copy:      clipboard.WriteAll,
	}
}

// SetResult stores the outcome of the run
func (m *SummaryModel) SetResult(summary *domain.Summary, err error) {
	m.summary = summary
	m.err = err
	m.lines = nil
	m.failures = 0
	m.ClearMessage()

	if summary != nil {
		for _, f := range summary.Failures {
			m.lines = append(m.lines, f.String())
		}
		m.failures = len(m.lines)
		m.lines = append(m.lines, summary.Warnings...)
	}
	m.paginator.SetTotal(len(m.lines))
}

// SetSize updates the view dimensions and the list page size
func (m *SummaryModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(height - 16)
}

// Init initializes the view
func (m *SummaryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the summary view
func (m *SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, SummaryKeys.Quit):
		return m, send(QuitMsg{})
	case key.Matches(keyMsg, SummaryKeys.Help):
		return m, send(SwitchToHelpMsg{})
	case key.Matches(keyMsg, SummaryKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(keyMsg, SummaryKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(keyMsg, SummaryKeys.NextPage):
		m.paginator.NextPage()
	case key.Matches(keyMsg, SummaryKeys.PrevPage):
		m.paginator.PrevPage()
	case key.Matches(keyMsg, SummaryKeys.Copy):
		if err := m.copy(m.Text()); err != nil {
			m.SetMessage("Copy failed: "+err.Error(), true)
		} else {
			m.SetMessage("Summary copied to clipboard", false)
		}
	}
	return m, nil
}

// Text returns the plain summary as copied to the clipboard
func (m *SummaryModel) Text() string {
	var b strings.Builder
	if m.summary != nil {
		b.WriteString(m.summary.String())
	}
	if m.err != nil {
		fmt.Fprintf(&b, "Error: %v\n", m.err)
	}
	return b.String()
}

// View renders the summary
func (m *SummaryModel) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("WordPress → Kirby"))
	b.WriteString("\n")

	if m.summary == nil {
		b.WriteString(styles.ErrorMsg.Render(fmt.Sprintf("Export failed: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpKey.Render("q"))
		b.WriteString(styles.HelpDesc.Render(" to quit"))
		return styles.App.Render(b.String())
	}

	s := m.summary
	switch {
	case s.OK():
		b.WriteString(styles.Success.Render("Export complete."))
	case s.Cancelled:
		b.WriteString(styles.ErrorMsg.Render("Export cancelled."))
	default:
		b.WriteString(styles.ErrorMsg.Render("Export finished with failures."))
	}
	b.WriteString("\n\n")

	var counts strings.Builder
	counts.WriteString(countLine("Posts", fmt.Sprintf("%d (%d drafts)", s.Posts+s.Drafts, s.Drafts)))
	counts.WriteString(countLine("Pages", fmt.Sprint(s.Pages)))
	counts.WriteString(countLine("Images", fmt.Sprintf("%d copied, %d kept", s.Attachments, s.SkippedAttachments)))
	counts.WriteString(countLine("Failed", fmt.Sprint(len(s.Failures))))
	counts.WriteString(countLine("Duration", s.Duration.String()))
	b.WriteString(styles.Panel.Render(strings.TrimRight(counts.String(), "\n")))
	b.WriteString("\n")

	if len(m.lines) > 0 {
		b.WriteString("\n")
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			b.WriteString(m.renderLine(i))
			b.WriteString("\n")
		}
		if m.paginator.TotalPages() > 1 {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages())))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.Message != "" {
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpKey.Render("c"))
	b.WriteString(styles.HelpDesc.Render(" copy  "))
	b.WriteString(styles.HelpKey.Render("q"))
	b.WriteString(styles.HelpDesc.Render(" quit"))

	return styles.App.Render(b.String())
}

func (m *SummaryModel) renderLine(i int) string {
	prefix, style := "! ", styles.FailureRow
	if i >= m.failures {
		prefix, style = "~ ", styles.WarningRow
	}
	if i == m.paginator.Cursor() {
		style = styles.FailureSelected
	}
	return style.Render(prefix + m.lines[i])
}

func countLine(label, value string) string {
	return styles.Label.Render(label) + styles.Count.Render(value) + "\n"
}
