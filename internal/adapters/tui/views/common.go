package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"wpkirby/internal/application/commands"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// RunInfo describes the export shown on the confirmation screen
type RunInfo struct {
	Source  string
	Root    string
	SiteURL string
}

// CheckDoneMsg carries the outcome of the precondition check
type CheckDoneMsg struct {
	Result *commands.CheckResult
	Err    error
}

// StartExportMsg asks the app to start the run
type StartExportMsg struct{}

// CancelExportMsg asks the app to stop the run after the current record
type CancelExportMsg struct{}

// ExportDoneMsg carries the outcome of the run
type ExportDoneMsg struct {
	Result *commands.ExportResult
	Err    error
}

// QuitMsg ends the program
type QuitMsg struct{}

// SwitchToHelpMsg opens the help view
type SwitchToHelpMsg struct{}

// CloseHelpMsg returns from the help view
type CloseHelpMsg struct{}

// send wraps a message in a command
func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
