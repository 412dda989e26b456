package snake

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StateGameOver GameStateType = "game_over"
)

// Snapshot captures the engine state for determinism checks and rendering
// collaborators that only need a summary.
type Snapshot struct {
	Tick           int
	Score          int
	SnakeLen       int
	HeadX          int
	HeadY          int
	Dir            Direction
	Pending        Direction
	FoodX          int
	FoodY          int
	HasFood        bool
	BorderContacts int
	State          GameStateType
	Outcome        Outcome
}

// Snapshot returns the current engine snapshot.
func (e *Engine) Snapshot() Snapshot {
	state := StatePlaying
	if e.gameOver {
		state = StateGameOver
	}

	return Snapshot{
		Tick:           len(e.moves),
		Score:          e.score,
		SnakeLen:       len(e.snake),
		HeadX:          e.snake[0].X,
		HeadY:          e.snake[0].Y,
		Dir:            e.direction,
		Pending:        e.pending,
		FoodX:          e.food.X,
		FoodY:          e.food.Y,
		HasFood:        e.hasFood,
		BorderContacts: e.borderContacts,
		State:          state,
		Outcome:        e.outcome,
	}
}
