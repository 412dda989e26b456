// Package snake implements the deterministic snake simulation.
//
// The engine is a pure function of (seed, submitted directions): two engines
// created from the same seed and fed the same directions in the same tick
// order produce identical trajectories and identical move logs. That property
// is what makes stored runs replayable and verifiable.
package snake

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/rng"
)

// Board geometry. Changing any of these changes every stored replay.
const (
	GridSize      = 20
	InitialLength = 3
)

// Event is the result of a single tick.
type Event int

const (
	EventContinuing Event = iota
	EventFoodEaten
	EventGameOver
)

func (e Event) String() string {
	switch e {
	case EventContinuing:
		return "continuing"
	case EventFoodEaten:
		return "food_eaten"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome explains why a game ended.
type Outcome int

const (
	OutcomeNone      Outcome = iota
	OutcomeWall              // Pinned against the border for two consecutive ticks
	OutcomeSelf              // Head ran into the body
	OutcomeBoardFull         // No empty cell left for food
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWall:
		return "wall"
	case OutcomeSelf:
		return "self"
	case OutcomeBoardFull:
		return "board_full"
	default:
		return "none"
	}
}

// Engine owns one game's state. It is not safe for concurrent use:
// SubmitDirection and Tick must be called from a single goroutine.
type Engine struct {
	seed string
	rng  rng.Source

	// Snake state
	snake     []Point // Head at index 0
	direction Direction
	pending   Direction // Buffered direction for next tick

	food    Point
	hasFood bool
	score   int

	// Consecutive ticks the head has been resolved against a wall
	borderContacts int

	gameOver bool
	outcome  Outcome

	moves     []byte
	foodTicks []int
}

// New creates an engine whose food placement is driven by a stream seeded with seed.
func New(seed string) *Engine {
	return NewWithSource(seed, rng.New(seed))
}

// NewWithSource creates an engine drawing from src. The engine takes
// exclusive ownership of src.
func NewWithSource(seed string, src rng.Source) *Engine {
	e := &Engine{
		seed: seed,
		rng:  src,
	}
	e.initSnake()
	e.placeFood()
	return e
}

// initSnake places a horizontal snake in the middle of the board, heading right.
func (e *Engine) initSnake() {
	start := Point{X: GridSize / 2, Y: GridSize / 2}

	e.snake = make([]Point, 0, InitialLength)
	for i := range InitialLength {
		e.snake = append(e.snake, Point{X: start.X - i, Y: start.Y})
	}
	e.direction = DirRight
	e.pending = DirRight
}

// placeFood picks an empty cell. Cells are enumerated row-major (y outer,
// x inner); the enumeration order is part of the replay contract.
func (e *Engine) placeFood() bool {
	occupied := make(map[Point]bool, len(e.snake))
	for _, seg := range e.snake {
		occupied[seg] = true
	}

	emptyCells := make([]Point, 0, GridSize*GridSize-len(occupied))
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			p := Point{X: x, Y: y}
			if !occupied[p] {
				emptyCells = append(emptyCells, p)
			}
		}
	}

	if len(emptyCells) == 0 {
		e.hasFood = false
		return false
	}

	idx := int(e.rng.NextFloat() * float64(len(emptyCells)))
	// Guard against a source that violates the [0,1) contract.
	idx = core.Clamp(idx, 0, len(emptyCells)-1)
	e.food = emptyCells[idx]
	e.hasFood = true
	return true
}

// SubmitDirection buffers d for the next tick. Reversing into the current
// direction is silently ignored, as is any input after game over.
func (e *Engine) SubmitDirection(d Direction) {
	if e.gameOver || !d.Valid() {
		return
	}
	if d == e.direction.Opposite() {
		return
	}
	e.pending = d
}

// Tick advances the game by exactly one move.
func (e *Engine) Tick() Event {
	if e.gameOver {
		return EventGameOver
	}

	// Apply buffered direction and record it
	e.direction = e.pending
	e.moves = append(e.moves, e.direction.Symbol())

	newHead := e.snake[0].Add(e.direction.Vector())

	if !newHead.InBounds(GridSize) {
		// Pin the head at the edge. Only the second consecutive contact kills.
		newHead.X = core.Clamp(newHead.X, 0, GridSize-1)
		newHead.Y = core.Clamp(newHead.Y, 0, GridSize-1)
		e.borderContacts++
		if e.borderContacts >= 2 {
			return e.end(OutcomeWall)
		}
	} else {
		e.borderContacts = 0
		if e.isSnakeAt(newHead) {
			return e.end(OutcomeSelf)
		}
	}

	e.snake = append(e.snake, Point{})
	copy(e.snake[1:], e.snake)
	e.snake[0] = newHead

	if e.hasFood && newHead == e.food {
		e.score++
		e.foodTicks = append(e.foodTicks, len(e.moves)-1)
		if !e.placeFood() {
			return e.end(OutcomeBoardFull)
		}
		return EventFoodEaten
	}

	e.snake = e.snake[:len(e.snake)-1]
	return EventContinuing
}

func (e *Engine) end(o Outcome) Event {
	e.gameOver = true
	e.outcome = o
	return EventGameOver
}

// isSnakeAt checks if any current segment occupies p.
func (e *Engine) isSnakeAt(p Point) bool {
	for _, seg := range e.snake {
		if seg == p {
			return true
		}
	}
	return false
}

// Seed returns the seed this engine was created with.
func (e *Engine) Seed() string {
	return e.seed
}

// Snake returns a copy of the segments, head first.
func (e *Engine) Snake() []Point {
	out := make([]Point, len(e.snake))
	copy(out, e.snake)
	return out
}

// Head returns the head position.
func (e *Engine) Head() Point {
	return e.snake[0]
}

// Food returns the food position and whether food is on the board.
func (e *Engine) Food() (Point, bool) {
	return e.food, e.hasFood
}

// Score returns the number of food items eaten.
func (e *Engine) Score() int {
	return e.score
}

// Direction returns the direction applied on the last tick.
func (e *Engine) Direction() Direction {
	return e.direction
}

// PendingDirection returns the direction the next tick will apply.
func (e *Engine) PendingDirection() Direction {
	return e.pending
}

// BorderContacts returns the current consecutive wall-contact count.
func (e *Engine) BorderContacts() int {
	return e.borderContacts
}

// GameOver reports whether the engine reached its terminal state.
func (e *Engine) GameOver() bool {
	return e.gameOver
}

// Outcome returns why the game ended, or OutcomeNone while running.
func (e *Engine) Outcome() Outcome {
	return e.outcome
}

// Ticks returns the number of ticks simulated so far.
func (e *Engine) Ticks() int {
	return len(e.moves)
}

// MoveLog returns the encoded moves recorded so far.
func (e *Engine) MoveLog() string {
	return string(e.moves)
}

// LastMove returns the symbol recorded by the most recent tick.
func (e *Engine) LastMove() (byte, bool) {
	if len(e.moves) == 0 {
		return 0, false
	}
	return e.moves[len(e.moves)-1], true
}

// FoodTicks returns the 0-based tick indices on which food was eaten.
func (e *Engine) FoodTicks() []int {
	out := make([]int, len(e.foodTicks))
	copy(out, e.foodTicks)
	return out
}

// Run returns the finished run. ok is false while the game is still live.
func (e *Engine) Run() (run Run, ok bool) {
	if !e.gameOver {
		return Run{}, false
	}
	return Run{
		Seed:    e.seed,
		MoveLog: e.MoveLog(),
		Score:   e.score,
	}, true
}

// DebugState returns a string representation of the game state.
func (e *Engine) DebugState() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Seed: %s, Tick: %d, Score: %d\n", e.seed, len(e.moves), e.score))
	b.WriteString(fmt.Sprintf("Snake len: %d, Direction: %s, Pending: %s\n", len(e.snake), e.direction, e.pending))
	b.WriteString(fmt.Sprintf("Head: (%d, %d), Food: (%d, %d), Border: %d\n",
		e.snake[0].X, e.snake[0].Y, e.food.X, e.food.Y, e.borderContacts))
	b.WriteString(fmt.Sprintf("GameOver: %v, Outcome: %s\n", e.gameOver, e.outcome))
	return b.String()
}
