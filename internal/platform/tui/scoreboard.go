package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-replay/internal/leaderboard"
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Watch   key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Watch, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Watch},
		{k.Refresh, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "watch replay"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the leaderboard screen.
type ScoreboardModel struct {
	board    Leaderboard
	limit    int
	entries  []leaderboard.Entry
	loadErr  error
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	embedded bool
	quitting bool
	back     bool
	selected *leaderboard.Entry // set when the user picks a replay
}

// NewScoreboardModel creates a scoreboard and loads the top entries.
func NewScoreboardModel(opts Options) ScoreboardModel {
	opts = opts.withDefaults()

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		board:  opts.Board,
		limit:  opts.TopLimit,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  opts.Runtime.ScreenW,
		height: opts.Runtime.ScreenH,
	}
	m.table = m.createTable()
	m.loadScores()
	return m
}

// createTable creates a new table sized to the terminal.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 18},
		{Title: "Score", Width: 8},
		{Title: "Moves", Width: 8},
		{Title: "Date", Width: 14},
	}

	// Give spare width to the player column
	if m.width > 80 {
		columns[1].Width = min(leaderboard.MaxIdentityLength, columns[1].Width+m.width-80)
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScores fetches the top entries.
func (m *ScoreboardModel) loadScores() {
	m.entries = nil
	m.loadErr = nil

	if m.board != nil {
		ctx, cancel := context.WithTimeout(context.Background(), boardTimeout)
		defer cancel()
		m.entries, m.loadErr = m.board.Top(ctx, m.limit)
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current entries.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.Identity,
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%d", len(e.MoveLog)),
			e.UpdatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, m.exit()

		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, m.exit()

		case key.Matches(msg, m.keys.Refresh):
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.Watch):
			if i := m.table.Cursor(); i >= 0 && i < len(m.entries) {
				e := m.entries[i]
				m.selected = &e
				return m, m.exit()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) exit() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.MarginBottom(1).Render(centerText("HIGH SCORES", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty/error message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.board == nil:
		return emptyStyle.Render("Leaderboard unavailable.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load scores.\nPress r to retry.")
	case len(m.entries) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// Selected returns the entry chosen for replay, or nil.
func (m ScoreboardModel) Selected() *leaderboard.Entry {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns the entry the user picked for replay, or nil.
func RunScoreboard(opts Options) (*leaderboard.Entry, error) {
	p := tea.NewProgram(NewScoreboardModel(opts), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
