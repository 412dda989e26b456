package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagClear bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show leaderboard statistics",
	Long: `Print aggregate statistics over every stored run.

With --clear all entries are removed first. Score claims are kept,
so a cleared score value still counts toward the cap.

Examples:
  snake stats
  snake stats --clear`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all leaderboard entries")
}

func runStats(_ *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	if flagClear {
		if err := a.store.ClearScores(ctx); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		a.logger.Info("leaderboard cleared")
	}

	st, err := a.store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	fmt.Printf("Entries:     %d\n", st.Entries)
	if st.Entries == 0 {
		return nil
	}
	fmt.Printf("Best score:  %d\n", st.BestScore)
	fmt.Printf("Avg score:   %.1f\n", st.AvgScore)
	fmt.Printf("Total moves: %d\n", st.TotalMoves)
	fmt.Printf("Last played: %s\n", st.LastPlayed.Format("2006-01-02 15:04"))
	return nil
}
