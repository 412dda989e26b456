package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// MenuChoice identifies a main menu entry.
type MenuChoice int

const (
	ChoicePlay MenuChoice = iota
	ChoiceScores
	ChoiceQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	username  string
	keyMapper *KeyMapper
	selected  *MenuChoice // Set when user selects an entry
}

// NewMenuModel creates a new menu model.
func NewMenuModel(username string, width, height int) MenuModel {
	return MenuModel{
		items: []MenuItem{
			{Choice: ChoicePlay, Title: "Play"},
			{Choice: ChoiceScores, Title: "High Scores"},
			{Choice: ChoiceQuit, Title: "Quit"},
		},
		width:     width,
		height:    height,
		username:  username,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.choose(ChoiceQuit)

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		m.choose(m.items[m.cursor].Choice)

	case MenuActionScoreboard:
		m.choose(ChoiceScores)
	}

	return m, nil
}

func (m *MenuModel) choose(c MenuChoice) {
	m.selected = &c
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  S N A K E  ", m.width)))
	b.WriteString("\n\n")

	subtitle := "Deterministic runs, verified replays"
	if m.username != "" {
		subtitle = fmt.Sprintf("Welcome, %s", m.username)
	}
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(helpStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen entry, or nil if none yet.
func (m MenuModel) Selected() *MenuChoice {
	return m.selected
}
