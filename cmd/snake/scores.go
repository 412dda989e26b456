package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-replay/internal/leaderboard"
	"github.com/vovakirdan/snake-replay/internal/platform/tui"
)

var (
	flagPlain bool
	flagAll   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Browse high scores",
	Long: `Show the leaderboard. Select an entry and press Enter to watch its replay.

With --plain the table is printed without the interactive screen;
--all lists every entry instead of the configured top limit.

Examples:
  snake scores
  snake scores --plain
  snake scores --plain --all`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the table instead of opening the scoreboard")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "List every entry (implies --plain)")
}

func runScores(_ *cobra.Command, _ []string) error {
	plain := flagPlain || flagAll

	a, err := newApp(!plain)
	if err != nil {
		return err
	}
	defer a.Close()

	if plain {
		return a.printScores(flagAll)
	}

	opts := a.tuiOptions("")
	for {
		entry, err := tui.RunScoreboard(opts)
		if err != nil || entry == nil {
			return err
		}
		if _, err := tui.RunReplay(*entry, opts.ReplayInterval); err != nil {
			return err
		}
	}
}

func (a *app) printScores(all bool) error {
	ctx := context.Background()

	var (
		entries []leaderboard.Entry
		err     error
	)
	if all {
		entries, err = a.store.AllEntries(ctx)
	} else {
		entries, err = a.policy.Top(ctx, a.cfg.Leaderboard.TopLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores - Snake")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-32s  %-6s  %-6s  %s\n", "Rank", "Player", "Score", "Moves", "Date")
	fmt.Printf("  %-4s  %-32s  %-6s  %-6s  %s\n", "----", "------", "-----", "-----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-32s  %-6d  %-6d  %s\n", i+1, e.Identity, e.Score, len(e.MoveLog), e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
