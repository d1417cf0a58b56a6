package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"wpkirby/internal/adapters/tui/styles"
)

var cancelKey = key.NewBinding(
	key.WithKeys("esc", "ctrl+c"),
	key.WithHelp("esc", "stop after the current record"),
)

// RunModel shows progress while the export runs
type RunModel struct {
	ViewState
	spinner    spinner.Model
	started    time.Time
	cancelling bool
}

// NewRunModel creates a new run view model
func NewRunModel() *RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &RunModel{spinner: s}
}

// Init starts the spinner
func (m *RunModel) Init() tea.Cmd {
	m.started = time.Now()
	m.cancelling = false
	return m.spinner.Tick
}

// Update handles messages for the run view
func (m *RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, cancelKey) && !m.cancelling {
			m.cancelling = true
			return m, send(CancelExportMsg{})
		}
	}
	return m, nil
}

// View renders the spinner and elapsed time
func (m *RunModel) View() string {
	elapsed := time.Since(m.started).Round(time.Second)

	status := fmt.Sprintf("%s Exporting... %s", m.spinner.View(), elapsed)
	hint := styles.HelpKey.Render("esc") + styles.HelpDesc.Render(" to stop")
	if m.cancelling {
		hint = styles.MutedText.Render("Stopping after the current record...")
	}

	return styles.App.Render(styles.Title.Render("WordPress → Kirby") + "\n" + status + "\n\n" + hint)
}
