// Package tui provides the Bubble Tea front end: live play, replay viewing,
// the scoreboard and the SSH server that hosts them.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick. ID identifies the tick loop
// that scheduled it, so a model ignores ticks left over from an earlier loop.
type TickMsg struct {
	ID   int64
	Time time.Time
}

var tickLoops atomic.Int64

// newTickLoop returns a fresh tick loop ID.
func newTickLoop() int64 {
	return tickLoops.Add(1)
}

// tickCmd returns a Bubble Tea command that sends one tick after interval.
func tickCmd(id int64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}
