package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/games/snake"
	"github.com/vovakirdan/snake-replay/internal/leaderboard"
	"github.com/vovakirdan/snake-replay/internal/rng"
)

type playPhase int

const (
	phasePlaying    playPhase = iota
	phaseNaming               // prompting for a name to submit the session best
	phaseSubmitting           // waiting for the leaderboard
	phaseOver                 // game over, nothing pending
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
)

// submitResultMsg carries the leaderboard's answer to a submission.
type submitResultMsg struct {
	decision leaderboard.Decision
	err      error
}

// PlayModel is the Bubble Tea model for live play.
type PlayModel struct {
	opts   Options
	engine *snake.Engine
	screen *core.Screen
	keys   *KeyMapper
	name   textinput.Model
	tickID int64

	best     *snake.Run // best finished run this session
	phase    playPhase
	paused   bool
	canRetry bool // last submission may be sent again

	status     string
	statusKind statusKind

	width    int
	height   int
	embedded bool // running inside a SessionModel
	quitting bool
	back     bool
}

// NewPlayModel creates a live play model and starts the first game.
func NewPlayModel(opts Options) PlayModel {
	opts = opts.withDefaults()

	name := textinput.New()
	name.Placeholder = "your name"
	name.CharLimit = leaderboard.MaxIdentityLength
	name.Width = leaderboard.MaxIdentityLength
	name.Prompt = "Name: "
	name.SetValue(opts.Username)

	m := PlayModel{
		opts:   opts,
		screen: core.NewScreen(snake.BoardWidth, snake.BoardHeight),
		keys:   NewKeyMapper(),
		name:   name,
		tickID: newTickLoop(),
		width:  opts.Runtime.ScreenW,
		height: opts.Runtime.ScreenH,
	}
	m.newGame()
	return m
}

// newGame starts a fresh engine. A configured seed is reused; otherwise each game gets a new one.
func (m *PlayModel) newGame() {
	seed := m.opts.Runtime.Seed
	if seed == "" {
		seed = rng.NewSeed(m.opts.Runtime.SeedLength)
	}
	m.engine = snake.New(seed)
	m.phase = phasePlaying
	m.paused = false
	m.canRetry = false
	m.status = ""
}

// Init starts the tick loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.tickID, m.opts.Runtime.TickInterval)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.phase == phaseNaming {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if msg.ID != m.tickID {
			return m, nil
		}
		return m.handleTick()

	case submitResultMsg:
		return m.handleSubmitResult(msg)
	}

	if m.phase == phaseNaming {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleTick advances the engine by one step.
func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	next := tickCmd(m.tickID, m.opts.Runtime.TickInterval)
	if m.phase != phasePlaying || m.paused {
		return m, next
	}

	if m.engine.Tick() == snake.EventGameOver {
		cmd := m.onGameOver()
		return m, tea.Batch(next, cmd)
	}
	return m, next
}

// onGameOver records the session best and opens the name prompt.
func (m *PlayModel) onGameOver() tea.Cmd {
	run, _ := m.engine.Run()
	m.opts.Logger.Debug("game over", "outcome", m.engine.Outcome(), "state", m.engine.DebugState())
	if m.best == nil || run.Score > m.best.Score {
		m.best = &run
		m.setStatus(fmt.Sprintf("New session best: %d", run.Score), statusOK)
	} else {
		m.setStatus(fmt.Sprintf("Game over (%s). Session best is %d", m.engine.Outcome(), m.best.Score), statusInfo)
	}

	if m.opts.Board == nil {
		m.phase = phaseOver
		return nil
	}
	m.phase = phaseNaming
	return m.name.Focus()
}

// handleKey processes keyboard input outside the name prompt.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, m.exit()
	}

	if dir, ok := DirectionFor(action); ok {
		if m.phase == phasePlaying && !m.paused {
			m.engine.SubmitDirection(dir)
		}
		return m, nil
	}

	switch action {
	case core.ActionPause:
		if m.phase == phasePlaying {
			m.paused = !m.paused
		}
	case core.ActionRestart:
		if m.phase == phaseOver {
			m.newGame()
		}
	case core.ActionConfirm:
		if m.phase == phaseOver && m.canRetry {
			m.phase = phaseNaming
			cmd := m.name.Focus()
			return m, cmd
		}
	case core.ActionBack:
		if m.phase == phaseOver || m.paused {
			m.back = true
			return m, m.exit()
		}
	}
	return m, nil
}

// handleNameKey routes keys to the name prompt.
func (m PlayModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, m.exit()
	case tea.KeyEsc:
		m.name.Blur()
		m.phase = phaseOver
		m.setStatus("Submission skipped", statusInfo)
		return m, nil
	case tea.KeyEnter:
		m.name.Blur()
		m.phase = phaseSubmitting
		m.setStatus("Submitting...", statusInfo)
		return m, submitCmd(m.opts.Board, leaderboard.Submission{
			Identity: m.name.Value(),
			Score:    m.best.Score,
			Seed:     m.best.Seed,
			MoveLog:  m.best.MoveLog,
		})
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// submitCmd runs the admission off the UI goroutine.
func submitCmd(board Leaderboard, sub leaderboard.Submission) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), boardTimeout)
		defer cancel()
		dec, err := board.Admit(ctx, sub)
		return submitResultMsg{decision: dec, err: err}
	}
}

func (m PlayModel) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	m.phase = phaseOver
	m.canRetry = false
	if msg.err != nil {
		m.opts.Logger.Debug("submission refused", "error", msg.err)
		rej, isRejection := leaderboard.AsRejection(msg.err)
		m.canRetry = !isRejection || rej.Code == leaderboard.CodeInvalidSubmission
		m.setStatus(rejectionText(msg.err), statusWarn)
		return m, nil
	}

	e := msg.decision.Entry
	if msg.decision.Replaced {
		m.setStatus(fmt.Sprintf("Leaderboard entry for %s improved to %d", e.Identity, e.Score), statusOK)
	} else {
		m.setStatus(fmt.Sprintf("%s entered the leaderboard with %d", e.Identity, e.Score), statusOK)
	}
	return m, nil
}

func (m *PlayModel) setStatus(s string, kind statusKind) {
	m.status = s
	m.statusKind = kind
}

// exit quits the program when running standalone.
func (m PlayModel) exit() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// saveScreenshot saves the current board to a text file.
func (m *PlayModel) saveScreenshot() {
	m.screen.Clear()
	m.engine.Render(m.screen, 0, 0)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".snake", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("snake_%s_%s.txt", m.engine.Seed(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the board with the score line and prompt.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.engine.Render(m.screen, 0, 0)

	best := 0
	if m.best != nil {
		best = m.best.Score
	}
	header := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("S N A K E"),
		infoStyle.Render(fmt.Sprintf("Score %d   Best %d   Seed %s", m.engine.Score(), best, m.engine.Seed())),
	)

	var footer []string
	switch {
	case m.paused:
		footer = append(footer, warnStyle.Render("PAUSED"))
	case m.engine.BorderContacts() > 0 && m.phase == phasePlaying:
		footer = append(footer, warnStyle.Render("Against the wall!"))
	default:
		footer = append(footer, "")
	}
	if m.status != "" {
		footer = append(footer, statusStyle(m.statusKind).Render(m.status))
	}
	if m.phase == phaseNaming {
		footer = append(footer, m.name.View(), helpStyle.Render("enter submit • esc skip"))
	} else {
		footer = append(footer, helpStyle.Render(m.helpLine()))
	}

	return place(m.width, m.height, lipgloss.JoinVertical(lipgloss.Center,
		header,
		RenderScreen(m.screen),
		strings.Join(footer, "\n"),
	))
}

func (m PlayModel) helpLine() string {
	if m.phase == phaseOver && m.canRetry {
		return "enter retry • r new game • esc back • q quit"
	}
	if m.phase == phaseOver {
		return "r new game • esc back • q quit"
	}
	return "arrows/wasd steer • p pause • q quit"
}

func statusStyle(kind statusKind) lipgloss.Style {
	switch kind {
	case statusOK:
		return okStyle
	case statusWarn:
		return warnStyle
	default:
		return infoStyle
	}
}

// Best returns the best finished run of the session, if any.
func (m PlayModel) Best() (snake.Run, bool) {
	if m.best == nil {
		return snake.Run{}, false
	}
	return *m.best, true
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m PlayModel) BackToMenu() bool {
	return m.back
}

// RunPlay runs live play as a standalone program.
func RunPlay(opts Options) error {
	p := tea.NewProgram(NewPlayModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
