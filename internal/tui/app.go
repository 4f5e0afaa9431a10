// Package tui is the terminal shell: it forwards input to the search
// orchestrator and renders the store.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/atlas/internal/search"
	"github.com/jask/atlas/internal/store"
)

// App ties the store, the orchestrator and the views together.
type App struct {
	store *store.Store
	orch  *search.Orchestrator
	keys  *KeyRegistry

	input    textinput.Model
	spinner  spinner.Model
	spinning bool

	// snap is the latest state delivered by the store observer.
	snap        store.State
	unsubscribe func()

	width  int
	height int
}

func New(st *store.Store, orch *search.Orchestrator) *App {
	ti := textinput.New()
	ti.Placeholder = "Search for a country..."
	ti.Prompt = "› "
	ti.PromptStyle = cursorStyle
	ti.CharLimit = 80
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	a := &App{
		store:   st,
		orch:    orch,
		keys:    NewKeyRegistry(),
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorAccent))),
		snap:    st.Snapshot(),
	}
	a.unsubscribe = st.Subscribe(a.onState)
	a.resizeInput()
	return a
}

// onState mirrors the store into the view state. The query is written back
// into the input so selections show the canonical country name.
func (a *App) onState(st store.State) {
	a.snap = st
	if a.input.Value() != st.SearchQuery {
		a.input.SetValue(st.SearchQuery)
		a.input.CursorEnd()
	}
}

func (a *App) Init() tea.Cmd {
	return a.withSpinner(a.orch.Init())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.orch.Handle(msg); ok {
		return a, a.withSpinner(cmd)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resizeInput()
		return a, nil
	case spinner.TickMsg:
		if !a.snap.IsLoading {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}
	return a, nil
}

// withSpinner starts the spinner when cmd leaves the store loading.
func (a *App) withSpinner(cmd tea.Cmd) tea.Cmd {
	if !a.snap.IsLoading || a.spinning {
		return cmd
	}
	a.spinning = true
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *App) scope() string {
	if a.orch.SuggestionsVisible() {
		return scopeSuggestions
	}
	return scopeSearch
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if b := a.keys.Lookup(msg.String(), a.scope()); b != nil {
		switch b.Action {
		case actionQuit:
			a.Close()
			return tea.Quit
		case actionRetry:
			if a.snap.APIError == "" {
				return nil
			}
			return a.withSpinner(a.orch.Retry())
		case actionSubmit:
			return a.withSpinner(a.orch.Submit())
		case actionSelect:
			if c, ok := a.orch.Highlighted(); ok {
				return a.withSpinner(a.orch.Select(c))
			}
			if msg.Type == tea.KeyEnter {
				return a.withSpinner(a.orch.Submit())
			}
			return nil
		case actionUp:
			a.orch.MoveCursor(-1)
			return nil
		case actionDown:
			if !a.orch.SuggestionsVisible() {
				a.orch.Focus()
				return nil
			}
			a.orch.MoveCursor(1)
			return nil
		case actionDismiss:
			a.orch.Dismiss()
			return nil
		}
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if v := a.input.Value(); v != before {
		a.orch.SetQuery(v)
	}
	return cmd
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if i, ok := a.suggestionAt(msg.X, msg.Y); ok {
		return a.withSpinner(a.orch.Select(a.orch.Suggestions()[i]))
	}
	switch {
	case msg.Y >= searchTop && msg.Y < searchTop+searchHeight:
		a.orch.Focus()
	case a.snap.APIError != "" && msg.Y >= bannerTop && msg.Y < bannerTop+bannerHeight:
		a.orch.Dismiss()
		return a.withSpinner(a.orch.Retry())
	default:
		a.orch.Dismiss()
	}
	return nil
}

// suggestionAt maps a screen cell to a dropdown row.
func (a *App) suggestionAt(x, y int) (int, bool) {
	if !a.orch.SuggestionsVisible() {
		return 0, false
	}
	rows := a.orch.Suggestions()
	i := y - dropdownFirst
	if i < 0 || i >= len(rows) || x < 0 || x >= a.contentWidth() {
		return 0, false
	}
	return i, true
}

func (a *App) resizeInput() {
	a.input.Width = max(a.contentWidth()-4-lipgloss.Width("enter ⏎ search")-lipgloss.Width(a.input.Prompt)-3, 10)
}

// Close detaches from the store and cancels in-flight work.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.orch.Close()
}

func (a *App) View() string {
	width := a.contentWidth()
	st := a.snap

	parts := []string{renderHeader(width), a.renderSearchBox(width)}
	if st.APIError != "" {
		parts = append(parts, renderErrorBanner(st.APIError, width))
	}
	parts = append(parts, a.renderBody(st, width))
	body := strings.Join(parts, "\n")
	footer := renderFooter(a.keys.HelpBindings(a.scope()), width)

	view := a.place(body, footer, width)
	if a.orch.SuggestionsVisible() {
		height := a.height
		if height <= 0 {
			height = len(splitLines(view))
		}
		view = overlayAt(view, renderSuggestions(a.orch.Suggestions(), a.orch.Cursor(), width), 0, dropdownTop, width, height)
	}
	return view
}

// place pins the footer to the bottom row when the terminal height is known.
func (a *App) place(body, footer string, width int) string {
	if a.height <= 0 {
		return body + "\n" + footer
	}
	contentHeight := max(a.height-1, 1)
	lines := splitLines(body)
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = padRight(line, width)
	}
	return strings.Join(lines, "\n") + "\n" + footer
}
