package core

// Action represents a semantic input action, abstracted from physical key presses.
// Live play maps direction actions onto the engine; replay viewing only
// accepts transport actions (play/pause, step, restart).
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionConfirm        // Enter - submit name
	ActionBack           // Esc - leave current screen
	ActionRestart        // R - new game / restart replay
	ActionQuit           // Q, Ctrl+C
	ActionPause          // P, Space - pause or toggle replay playback
	ActionStep           // N - advance a paused replay by one tick
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionStep:
		return "Step"
	default:
		return "Unknown"
	}
}
