package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/games/snake"
	"github.com/vovakirdan/snake-replay/internal/leaderboard"
	"github.com/vovakirdan/snake-replay/internal/replay"
)

// ReplayModel plays back a stored run. Input only drives the transport:
// play/pause, single step and restart.
type ReplayModel struct {
	entry    leaderboard.Entry
	driver   *replay.Driver
	interval time.Duration
	keys     *KeyMapper
	screen   *core.Screen
	tickID   int64

	width    int
	height   int
	embedded bool
	quitting bool
	back     bool
}

// NewReplayModel prepares a paused replay of entry.
func NewReplayModel(entry leaderboard.Entry, interval time.Duration) (ReplayModel, error) {
	d, err := replay.New(entry.Run())
	if err != nil {
		return ReplayModel{}, err
	}
	if interval <= 0 {
		interval = 52 * time.Millisecond
	}
	return ReplayModel{
		entry:    entry,
		driver:   d,
		interval: interval,
		keys:     NewKeyMapper(),
		screen:   core.NewScreen(snake.BoardWidth, snake.BoardHeight),
		tickID:   newTickLoop(),
	}, nil
}

// Init starts the playback tick loop.
func (m ReplayModel) Init() tea.Cmd {
	return tickCmd(m.tickID, m.interval)
}

// Update handles messages.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		if msg.ID != m.tickID {
			return m, nil
		}
		if m.driver.State() == replay.StatePlaying {
			m.driver.Step()
		}
		return m, tickCmd(m.tickID, m.interval)
	}
	return m, nil
}

func (m ReplayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, m.exit()
	}

	switch action {
	case core.ActionPause, core.ActionConfirm:
		m.driver.Toggle()
	case core.ActionStep:
		m.driver.Pause()
		m.driver.Step()
	case core.ActionRestart:
		m.driver.Restart()
	case core.ActionBack:
		m.back = true
		return m, m.exit()
	}
	return m, nil
}

func (m ReplayModel) exit() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// View renders the board, progress and result.
func (m ReplayModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.driver.Render(m.screen, 0, 0)

	snap := m.driver.Snapshot()
	index, total := m.driver.Progress()
	state := m.driver.State()

	header := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("R E P L A Y"),
		infoStyle.Render(fmt.Sprintf("%s   claimed %d   seed %s", m.entry.Identity, m.entry.Score, m.entry.Seed)),
		infoStyle.Render(fmt.Sprintf("Move %d/%d   Score %d   [%s]", index, total, snap.Score, state)),
	)

	footer := ""
	if state == replay.StateFinished {
		res := m.driver.Result()
		switch {
		case res.Err != nil:
			footer = bannerStyle.Render("DESYNC") + "\n" + warnStyle.Render(res.Err.Error())
		case res.Score != m.entry.Score:
			footer = bannerStyle.Render("SCORE MISMATCH") + "\n" +
				warnStyle.Render(fmt.Sprintf("replayed %d, claimed %d", res.Score, m.entry.Score))
		default:
			footer = okStyle.Render(fmt.Sprintf("Finished: score %d (%s)", res.Score, res.Outcome))
		}
	}

	return place(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center,
		header,
		RenderScreen(m.screen),
		footer,
		helpStyle.Render("space play/pause • n step • r restart • esc back • q quit"),
	))
}

// Result reports the replay outcome so far.
func (m ReplayModel) Result() replay.Result {
	return m.driver.Result()
}

// IsQuitting returns true if user requested to quit entirely.
func (m ReplayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back.
func (m ReplayModel) BackToMenu() bool {
	return m.back
}

// RunReplay plays entry back as a standalone program.
func RunReplay(entry leaderboard.Entry, interval time.Duration) (replay.Result, error) {
	model, err := NewReplayModel(entry, interval)
	if err != nil {
		return replay.Result{}, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return replay.Result{}, err
	}
	if rm, ok := final.(ReplayModel); ok {
		return rm.Result(), nil
	}
	return model.Result(), nil
}
