package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func updateSession(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T, want SessionModel", next)
	}
	return sm, cmd
}

func TestSessionPlayAndBack(t *testing.T) {
	m := NewSessionModel(testOptions(nil))

	m, cmd := updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenPlay || m.play == nil {
		t.Fatalf("screen = %v, want play", m.screen)
	}
	if cmd == nil {
		t.Error("Entering play should start the tick loop")
	}

	m, _ = updateSession(t, m, TickMsg{ID: m.play.tickID})
	if m.play.engine.Ticks() != 1 {
		t.Errorf("Ticks = %d, want 1", m.play.engine.Ticks())
	}

	// Pause then back
	m, _ = updateSession(t, m, runeKey("p"))
	m, cmd = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("screen = %v, want menu", m.screen)
	}
	if isQuit(cmd) {
		t.Error("Back must not quit the session")
	}
}

func TestSessionKeepsBestAcrossGames(t *testing.T) {
	m := NewSessionModel(testOptions(nil))
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	for i := 0; !m.play.engine.GameOver(); i++ {
		if i > 1000 {
			t.Fatal("Game did not end")
		}
		m, _ = updateSession(t, m, TickMsg{ID: m.play.tickID})
	}
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.screen != screenPlay {
		t.Fatalf("screen = %v, want play", m.screen)
	}
	if _, ok := m.play.Best(); !ok {
		t.Error("Session best lost when returning to play")
	}
}

func TestSessionScoresToReplay(t *testing.T) {
	board := &fakeBoard{}
	board.entries = append(board.entries, recordedEntry(t, "alice"))
	m := NewSessionModel(testOptions(board))

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenScores {
		t.Fatalf("screen = %v, want scores", m.screen)
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenReplay {
		t.Fatalf("screen = %v, want replay", m.screen)
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenScores {
		t.Errorf("screen = %v, want scores after leaving the replay", m.screen)
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Errorf("screen = %v, want menu", m.screen)
	}
}

func TestSessionQuit(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*testing.T, SessionModel) SessionModel
	}{
		{"from menu", func(_ *testing.T, m SessionModel) SessionModel { return m }},
		{"from play", func(t *testing.T, m SessionModel) SessionModel {
			m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			return m
		}},
		{"from scores", func(t *testing.T, m SessionModel) SessionModel {
			m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
			return m
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.setup(t, NewSessionModel(testOptions(&fakeBoard{})))
			m, cmd := updateSession(t, m, runeKey("q"))
			if !isQuit(cmd) {
				t.Error("q should quit the session")
			}
			if m.View() != "" {
				t.Error("View should be empty after quitting")
			}
		})
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel("alice", 80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	sel := m.Selected()
	if sel == nil || *sel != ChoiceScores {
		t.Errorf("Selected = %v, want scores", sel)
	}
}
