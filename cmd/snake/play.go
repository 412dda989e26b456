package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-replay/internal/platform/tui"
)

var flagSeed string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a live game on a 20x20 board.

Controls:
  Arrows/WASD - Steer
  P/Space     - Pause
  R           - New game (after game over)
  Esc/B       - Back (when paused or after game over)
  Ctrl+S      - Save a text screenshot
  Q/Ctrl+C    - Quit

When a game ends you are asked for a name; the best run of the session
is submitted to the leaderboard and verified by replaying it.

Examples:
  snake play
  snake play --seed Xy12AbCd90`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSeed, "seed", "", "Fixed seed for every game (default: fresh seed per game)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.RunPlay(a.tuiOptions(flagSeed))
}
