package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenPlay
	screenScores
	screenReplay
)

// SessionModel manages the full session flow: menu -> play or scores -> replay.
// This is the top-level model for SSH sessions and the default local command.
type SessionModel struct {
	opts     Options
	screen   sessionScreen
	menu     MenuModel
	play     *PlayModel
	scores   ScoreboardModel
	replay   ReplayModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts Options) SessionModel {
	opts = opts.withDefaults()
	return SessionModel{
		opts: opts,
		menu: NewMenuModel(opts.Username, opts.Runtime.ScreenW, opts.Runtime.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenReplay:
		return m.updateReplay(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	switch *selected {
	case ChoicePlay:
		return m.startPlay()
	case ChoiceScores:
		return m.startScores()
	default:
		m.quitting = true
		return m, tea.Quit
	}
}

// startPlay opens live play, keeping the session best and name across visits.
func (m SessionModel) startPlay() (tea.Model, tea.Cmd) {
	next := NewPlayModel(m.opts)
	next.embedded = true
	if m.play != nil {
		next.best = m.play.best
		if name := m.play.name.Value(); name != "" {
			next.name.SetValue(name)
		}
	}
	m.play = &next
	m.screen = screenPlay
	return m, next.Init()
}

func (m SessionModel) startScores() (tea.Model, tea.Cmd) {
	m.scores = NewScoreboardModel(m.opts)
	m.scores.embedded = true
	m.screen = screenScores
	return m, m.scores.Init()
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.opts.Username, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
	m.screen = screenMenu
	return m, m.menu.Init()
}

// updatePlay handles updates when in game mode.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if playModel, ok := newModel.(PlayModel); ok {
		m.play = &playModel
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.play.BackToMenu() {
		m.play.back = false
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if scores, ok := newModel.(ScoreboardModel); ok {
		m.scores = scores
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.backToMenu()
	case m.scores.Selected() != nil:
		entry := *m.scores.Selected()
		m.scores.selected = nil
		rm, err := NewReplayModel(entry, m.opts.ReplayInterval)
		if err != nil {
			m.opts.Logger.Warn("cannot open replay", "identity", entry.Identity, "error", err)
			return m, nil
		}
		rm.embedded = true
		rm.width = m.opts.Runtime.ScreenW
		rm.height = m.opts.Runtime.ScreenH
		m.replay = rm
		m.screen = screenReplay
		return m, rm.Init()
	}
	return m, cmd
}

func (m SessionModel) updateReplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.replay.Update(msg)
	if rm, ok := newModel.(ReplayModel); ok {
		m.replay = rm
	}

	switch {
	case m.replay.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.replay.BackToMenu():
		return m.startScores()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenScores:
		return m.scores.View()
	case screenReplay:
		return m.replay.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session locally.
func RunSession(opts Options) error {
	p := tea.NewProgram(NewSessionModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
