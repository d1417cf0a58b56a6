package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"wpkirby/internal/adapters/tui/views"
	"wpkirby/internal/application/commands"
	"wpkirby/internal/domain"
	"wpkirby/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewConfirm ViewState = iota
	ViewRunning
	ViewSummary
	ViewHelp
)

// App is the main TUI application model
type App struct {
	runner commands.Runner
	source ports.ContentSource

	state    ViewState
	previous ViewState
	confirm  *views.ConfirmModel
	run      *views.RunModel
	summary  *views.SummaryModel
	help     *views.HelpModel

	cancel context.CancelFunc

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(runner commands.Runner, source ports.ContentSource, info views.RunInfo) *App {
	return &App{
		runner:  runner,
		source:  source,
		state:   ViewConfirm,
		confirm: views.NewConfirmModel(info),
		run:     views.NewRunModel(),
		summary: views.NewSummaryModel(),
		help:    views.NewHelpModel(),
	}
}

// State returns the current view
func (a *App) State() ViewState {
	return a.state
}

// Init runs the precondition check
func (a *App) Init() tea.Cmd {
	return a.check()
}

func (a *App) check() tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewCheckCommand(a.runner, a.source).Execute(context.Background())
		return views.CheckDoneMsg{Result: result, Err: err}
	}
}

func (a *App) export(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewExportCommand(a.runner).Execute(ctx)
		return views.ExportDoneMsg{Result: result, Err: err}
	}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.confirm.SetSize(msg.Width, msg.Height)
		a.run.SetSize(msg.Width, msg.Height)
		a.summary.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.CheckDoneMsg:
		a.confirm.SetCheck(msg)
		return a, nil

	case views.StartExportMsg:
		if a.state != ViewConfirm || !a.confirm.Ready() {
			return a, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		a.state = ViewRunning
		return a, tea.Batch(a.run.Init(), a.export(ctx))

	case views.CancelExportMsg:
		if a.cancel != nil {
			a.cancel()
		}
		return a, nil

	case views.ExportDoneMsg:
		if a.cancel != nil {
			a.cancel()
			a.cancel = nil
		}
		a.summary.SetResult(a.summaryOf(msg), msg.Err)
		a.state = ViewSummary
		return a, nil

	case views.SwitchToHelpMsg:
		if a.state == ViewRunning {
			return a, nil
		}
		a.previous = a.state
		a.state = ViewHelp
		return a, nil

	case views.CloseHelpMsg:
		a.state = a.previous
		return a, nil

	case views.QuitMsg:
		if a.cancel != nil {
			a.cancel()
		}
		return a, tea.Quit
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewRunning:
		_, cmd = a.run.Update(msg)
	case ViewSummary:
		_, cmd = a.summary.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) summaryOf(msg views.ExportDoneMsg) *domain.Summary {
	if msg.Result == nil {
		return nil
	}
	return msg.Result.Summary
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewRunning:
		return a.run.View()
	case ViewSummary:
		return a.summary.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.confirm.View()
	}
}
