// snake is a deterministic terminal snake with a replay-verified leaderboard.
//
// Usage:
//
//	snake                    - Start the interactive menu
//	snake play               - Play a game
//	snake replay <username>  - Watch a stored run
//	snake scores             - Browse high scores and watch replays
//	snake verify <username>  - Re-simulate a stored run headlessly
//	snake serve              - Start the HTTP API and SSH server
//	snake stats              - Show leaderboard statistics
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.snake/config.yaml, ./configs/snake.yaml)
//	--db <path>         - Override the scores database path
//	--log-level <level> - Override the log level (debug, info, warn, error)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake with verifiable replays",
	Long: `snake is a terminal snake game whose every run is deterministic.

A run is stored as its seed plus one move per tick, so any leaderboard
entry can be replayed exactly and checked against its claimed score.

Available commands:
  play     - Play a game
  replay   - Watch a stored run
  scores   - Browse high scores
  verify   - Re-simulate a stored run without a terminal UI
  serve    - Start the HTTP API and SSH server
  stats    - Show leaderboard statistics

Examples:
  snake
  snake play --seed Xy12AbCd90
  snake replay alice
  snake serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
}

func runMenu(_ *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.tuiSession()
}
