package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/games/snake"
	"github.com/vovakirdan/snake-replay/internal/leaderboard"
)

var errBoardDown = errors.New("board down")

// fakeBoard records submissions and returns canned answers.
type fakeBoard struct {
	mu        sync.Mutex
	submitted []leaderboard.Submission
	admitErr  error
	entries   []leaderboard.Entry
	topErr    error
}

func (b *fakeBoard) Admit(_ context.Context, sub leaderboard.Submission) (leaderboard.Decision, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitted = append(b.submitted, sub)
	if b.admitErr != nil {
		return leaderboard.Decision{}, b.admitErr
	}
	return leaderboard.Decision{Entry: leaderboard.Entry{
		Identity: sub.Identity,
		Score:    sub.Score,
		Seed:     sub.Seed,
		MoveLog:  sub.MoveLog,
	}}, nil
}

func (b *fakeBoard) Replay(_ context.Context, identity string) (leaderboard.Entry, error) {
	for _, e := range b.entries {
		if e.Identity == identity {
			return e, nil
		}
	}
	return leaderboard.Entry{}, leaderboard.Reject(leaderboard.ErrIdentityNotFound)
}

func (b *fakeBoard) Top(_ context.Context, limit int) ([]leaderboard.Entry, error) {
	if b.topErr != nil {
		return nil, b.topErr
	}
	return b.entries[:min(limit, len(b.entries))], nil
}

func testOptions(board Leaderboard) Options {
	return Options{
		Board: board,
		Runtime: core.RuntimeConfig{
			ScreenW:      80,
			ScreenH:      30,
			TickInterval: time.Millisecond,
			Seed:         "TestSeed01",
		},
		ReplayInterval: time.Millisecond,
		Username:       "alice",
	}
}

// recordedEntry plays a straight run into the right wall.
func recordedEntry(t *testing.T, identity string) leaderboard.Entry {
	t.Helper()

	e := snake.New("TestSeed01")
	for !e.GameOver() {
		e.Tick()
	}
	run, _ := e.Run()
	return leaderboard.Entry{
		ID:        identity + "-id",
		Identity:  identity,
		Score:     run.Score,
		Seed:      run.Seed,
		MoveLog:   run.MoveLog,
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}
