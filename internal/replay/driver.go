// Package replay re-runs a stored move log through a fresh engine.
//
// A Driver is the playback state machine used by the replay viewer; Verify is
// the headless form used before a score is admitted. Both feed each recorded
// symbol through Engine.SubmitDirection followed by Engine.Tick, exactly like
// live play, so a genuine log reproduces the original game tick for tick.
package replay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/games/snake"
)

var (
	// ErrReplayDesync means the log does not describe a game the engine can reproduce.
	ErrReplayDesync = errors.New("replay: move log desynchronized from simulation")
	// ErrScoreMismatch means the replayed score differs from the claimed one.
	ErrScoreMismatch = errors.New("replay: claimed score does not match replay")
)

// State is the playback state of a Driver.
type State int

const (
	StatePaused State = iota
	StatePlaying
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Result summarizes a replay at the current point.
type Result struct {
	Finished  bool
	Score     int
	Ticks     int
	FoodTicks []int
	Outcome   snake.Outcome
	Err       error // nil on a clean finish, wraps ErrReplayDesync otherwise
}

// Driver steps a decoded run through an engine. All methods are safe for
// concurrent use, so Run can drive playback while a UI reads state.
type Driver struct {
	mu sync.Mutex

	run    snake.Run
	moves  []snake.Direction
	engine *snake.Engine
	index  int
	state  State
	err    error
}

// New decodes run.MoveLog and prepares a paused driver at move 0.
func New(run snake.Run) (*Driver, error) {
	moves, err := snake.DecodeMoves(run.MoveLog)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		run:   run,
		moves: moves,
	}
	d.reset()
	return d, nil
}

func (d *Driver) reset() {
	d.engine = snake.New(d.run.Seed)
	d.index = 0
	d.state = StatePaused
	d.err = nil
}

// Play resumes automatic stepping. No-op unless paused.
func (d *Driver) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StatePaused {
		d.state = StatePlaying
	}
}

// Pause stops automatic stepping. No-op unless playing.
func (d *Driver) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StatePlaying {
		d.state = StatePaused
	}
}

// Toggle switches between playing and paused.
func (d *Driver) Toggle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case StatePaused:
		d.state = StatePlaying
	case StatePlaying:
		d.state = StatePaused
	}
}

// Restart re-seeds a fresh engine and rewinds to move 0, paused.
func (d *Driver) Restart() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// Step applies the next recorded move. It reports whether a move was consumed.
func (d *Driver) Step() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.step()
}

func (d *Driver) step() bool {
	if d.state == StateFinished {
		return false
	}
	if d.index >= len(d.moves) {
		d.finish(fmt.Errorf("%w: log exhausted after %d moves without game over", ErrReplayDesync, d.index))
		return false
	}

	move := d.moves[d.index]
	d.engine.SubmitDirection(move)
	ev := d.engine.Tick()
	d.index++

	// A reversal in the log is dropped by the engine, which records the old direction.
	if sym, _ := d.engine.LastMove(); sym != move.Symbol() {
		d.finish(fmt.Errorf("%w: move %d recorded %q, engine applied %q", ErrReplayDesync, d.index-1, move.Symbol(), sym))
		return true
	}

	remaining := len(d.moves) - d.index
	switch {
	case ev == snake.EventGameOver && remaining > 0:
		d.finish(fmt.Errorf("%w: game over at move %d with %d moves remaining", ErrReplayDesync, d.index-1, remaining))
	case ev == snake.EventGameOver:
		d.finish(nil)
	case remaining == 0:
		d.finish(fmt.Errorf("%w: log exhausted after %d moves without game over", ErrReplayDesync, d.index))
	}
	return true
}

func (d *Driver) finish(err error) {
	d.state = StateFinished
	d.err = err
}

// Run steps the driver every interval while it is playing. It returns nil
// once playback finishes, or ctx.Err() if cancelled first.
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.mu.Lock()
			if d.state == StatePlaying {
				d.step()
			}
			finished := d.state == StateFinished
			d.mu.Unlock()
			if finished {
				return nil
			}
		}
	}
}

// State returns the current playback state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Progress returns the number of moves consumed and the log length.
func (d *Driver) Progress() (index, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index, len(d.moves)
}

// Snapshot returns the engine state at the current move.
func (d *Driver) Snapshot() snake.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Snapshot()
}

// Render draws the board at the current move.
func (d *Driver) Render(dst *core.Screen, originX, originY int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.engine.Render(dst, originX, originY)
}

// Result reports the replay outcome so far.
func (d *Driver) Result() Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Result{
		Finished:  d.state == StateFinished,
		Score:     d.engine.Score(),
		Ticks:     d.engine.Ticks(),
		FoodTicks: d.engine.FoodTicks(),
		Outcome:   d.engine.Outcome(),
		Err:       d.err,
	}
}

// Verify replays run to completion without pacing. It fails with
// snake.ErrInvalidSymbol, ErrReplayDesync or ErrScoreMismatch.
func Verify(run snake.Run) (Result, error) {
	d, err := New(run)
	if err != nil {
		return Result{}, err
	}

	d.mu.Lock()
	for d.state != StateFinished {
		d.step()
	}
	d.mu.Unlock()

	res := d.Result()
	if res.Err != nil {
		return res, res.Err
	}
	if res.Score != run.Score {
		return res, fmt.Errorf("%w: claimed %d, replayed %d", ErrScoreMismatch, run.Score, res.Score)
	}
	return res, nil
}
