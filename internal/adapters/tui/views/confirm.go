package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"wpkirby/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for the confirmation view
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "start export"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc", "q"),
		key.WithHelp("n/esc", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// ConfirmModel shows what an export will do and asks before starting it
type ConfirmModel struct {
	ViewState
	Info  RunInfo
	Keys  ConfirmKeyMap
	check *CheckDoneMsg
}

// NewConfirmModel creates a new confirmation model with default keys
func NewConfirmModel(info RunInfo) *ConfirmModel {
	return &ConfirmModel{
		Info: info,
		Keys: DefaultConfirmKeys,
	}
}

// SetCheck stores the outcome of the precondition check
func (m *ConfirmModel) SetCheck(msg CheckDoneMsg) {
	m.check = &msg
	if msg.Err != nil {
		m.SetMessage(msg.Err.Error(), true)
	} else {
		m.ClearMessage()
	}
}

// Ready reports whether the check passed
func (m *ConfirmModel) Ready() bool {
	return m.check != nil && m.check.Err == nil
}

// Init initializes the view
func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirmation view
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Cancel):
		return m, send(QuitMsg{})
	case key.Matches(keyMsg, m.Keys.Help):
		return m, send(SwitchToHelpMsg{})
	case key.Matches(keyMsg, m.Keys.Confirm):
		if !m.Ready() {
			return m, nil
		}
		return m, send(StartExportMsg{})
	}
	return m, nil
}

// View renders the plan and the prompt
func (m *ConfirmModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("WordPress → Kirby"))
	b.WriteString("\n")

	var plan strings.Builder
	plan.WriteString(infoLine("Source", m.Info.Source))
	plan.WriteString(infoLine("Site", m.Info.SiteURL))
	plan.WriteString(infoLine("Export root", m.Info.Root))
	if m.Ready() {
		r := m.check.Result
		plan.WriteString(infoLine("Posts", fmt.Sprintf("%d (%d drafts)", r.Posts+r.Drafts, r.Drafts)))
		plan.WriteString(infoLine("Pages", fmt.Sprintf("%d top-level", r.RootPages)))
	}
	b.WriteString(styles.Panel.Render(strings.TrimRight(plan.String(), "\n")))
	b.WriteString("\n\n")

	switch {
	case m.check == nil:
		b.WriteString(styles.MutedText.Render("Checking settings and run token..."))
	case m.MessageErr:
		b.WriteString(styles.ErrorMsg.Render("Cannot export: " + m.Message))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpKey.Render("q"))
		b.WriteString(styles.HelpDesc.Render(" to quit"))
	default:
		b.WriteString(RenderConfirmPrompt("Start export?"))
	}

	return styles.App.Render(b.String())
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}

func infoLine(label, value string) string {
	if value == "" {
		value = styles.MutedText.Render("(not set)")
	}
	return styles.Label.Render(label) + value + "\n"
}
