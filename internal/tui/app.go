// Package tui implements the interactive terminal session: a
// scrolling transcript of turns above a single input field.
package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hearthkit/hearth/internal/orchestrator"
	"github.com/hearthkit/hearth/pkg/models"
)

// TurnDoneMsg carries a completed turn into the app.
type TurnDoneMsg struct {
	Result *orchestrator.TurnResult
}

// TurnFailedMsg carries a failed turn into the app.
type TurnFailedMsg struct {
	Err error
}

// ProgressMsg carries an orchestrator event into the app while a
// turn is running.
type ProgressMsg struct {
	Event orchestrator.Event
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	nodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// App is the model for the interactive session.
type App struct {
	inputField *InputField
	lines      []string
	scroll     int
	width      int
	height     int
	busy       bool
	quitting   bool

	// onSubmit runs a turn for the submitted utterance. The driver
	// reports back with TurnDoneMsg or TurnFailedMsg via Program.Send.
	onSubmit func(utterance string)
}

// NewApp creates the interactive session app.
func NewApp() *App {
	return &App{
		inputField: NewInputField(),
		width:      80,
		height:     24,
	}
}

// SetSubmitHandler sets the callback invoked for each utterance.
func (a *App) SetSubmitHandler(handler func(utterance string)) {
	a.onSubmit = handler
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.appendLine(headerStyle.Render("hearth") + dimStyle.Render("  smart home session, type q to quit"))
	return a.inputField.Focus()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		case "up":
			a.scrollBy(-1)
			return a, nil
		case "down":
			a.scrollBy(1)
			return a, nil
		case "pgup":
			a.scrollBy(-a.transcriptHeight())
			return a, nil
		case "pgdown":
			a.scrollBy(a.transcriptHeight())
			return a, nil
		default:
			if a.busy {
				return a, nil
			}
			var cmd tea.Cmd
			a.inputField, cmd = a.inputField.Update(msg)
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.inputField.SetWidth(msg.Width)
		return a, nil

	case UtteranceSubmittedMsg:
		if orchestrator.IsQuitCommand(msg.Utterance) {
			a.quitting = true
			return a, tea.Quit
		}
		a.appendLine(userStyle.Render("you: ") + msg.Utterance)
		a.busy = true
		if a.onSubmit != nil {
			a.onSubmit(msg.Utterance)
		}
		return a, nil

	case ProgressMsg:
		a.appendProgress(msg.Event)
		return a, nil

	case TurnDoneMsg:
		a.busy = false
		a.appendTurn(msg.Result)
		return a, nil

	case TurnFailedMsg:
		a.busy = false
		a.appendLine(errorStyle.Render("error: ") + msg.Err.Error())
		return a, nil
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	transcript := a.renderTranscript()
	status := ""
	if a.busy {
		status = dimStyle.Render("thinking...")
	}
	input := a.inputField.View()
	return lipgloss.JoinVertical(lipgloss.Left, transcript, status, input)
}

func (a *App) transcriptHeight() int {
	// Input box is 3 lines plus 1 status line.
	h := a.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) renderTranscript() string {
	h := a.transcriptHeight()
	start := len(a.lines) - h - a.scroll
	if start < 0 {
		start = 0
	}
	end := start + h
	if end > len(a.lines) {
		end = len(a.lines)
	}
	visible := a.lines[start:end]
	for len(visible) < h {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

func (a *App) appendLine(line string) {
	a.lines = append(a.lines, line)
	a.scroll = 0 // New output snaps the view to the bottom.
}

func (a *App) scrollBy(delta int) {
	max := len(a.lines) - a.transcriptHeight()
	if max < 0 {
		max = 0
	}
	a.scroll -= delta
	if a.scroll > max {
		a.scroll = max
	}
	if a.scroll < 0 {
		a.scroll = 0
	}
}

func (a *App) appendProgress(ev orchestrator.Event) {
	switch ev.Type {
	case orchestrator.EventPlanCreated:
		a.appendLine(dimStyle.Render("  plan: " + ev.Message))
	case orchestrator.EventCollaborationRequested:
		a.appendLine(dimStyle.Render("  asking: " + ev.Message))
	case orchestrator.EventCollaborationAnswered:
		a.appendLine(dimStyle.Render("  answered: " + ev.Message))
	case orchestrator.EventTaskCompleted:
		a.appendLine(dimStyle.Render(fmt.Sprintf("  %s done", ev.Device)))
	}
}

func (a *App) appendTurn(result *orchestrator.TurnResult) {
	if result == nil {
		return
	}
	devices := make([]string, 0, len(result.Results))
	for d := range result.Results {
		devices = append(devices, string(d))
	}
	sort.Strings(devices)
	for _, d := range devices {
		a.appendLine(nodeStyle.Render(d+": ") + resultStyle.Render(result.Results[models.DeviceID(d)]))
	}
	a.appendLine(dimStyle.Render(fmt.Sprintf("  %.2fs", result.Elapsed.Seconds())))
}

// NewProgram creates a Bubbletea program for the interactive session.
func NewProgram() (*tea.Program, *App) {
	app := NewApp()
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
