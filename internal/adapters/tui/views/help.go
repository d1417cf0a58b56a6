package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"wpkirby/internal/adapters/tui/styles"
)

var helpCloseKey = key.NewBinding(
	key.WithKeys("esc", "q", "?"),
	key.WithHelp("esc/q/?", "close"),
)

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, helpCloseKey) {
		return m, send(CloseHelpMsg{})
	}
	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Help"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Exports posts, pages and images into a Kirby content folder"))
	b.WriteString("\n\n")

	b.WriteString(styles.Label.Render("Before the run"))
	b.WriteString("\n")
	b.WriteString(helpLine("y / Enter", "Start the export"))
	b.WriteString(helpLine("n / Esc / q", "Quit without writing anything"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("While running"))
	b.WriteString("\n")
	b.WriteString(helpLine("Esc", "Stop after the current record"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Scroll failures and warnings"))
	b.WriteString(helpLine("PgUp / PgDn", "Previous / next page"))
	b.WriteString(helpLine("c", "Copy the summary to the clipboard"))
	b.WriteString(helpLine("q", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.MutedText.Render("Runs can be repeated: text files are rewritten, images already exported are kept."))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(keys, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(keys, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
