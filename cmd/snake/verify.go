package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-replay/internal/games/snake"
	"github.com/vovakirdan/snake-replay/internal/replay"
)

var errVerifyFailed = errors.New("verification failed")

var verifyCmd = &cobra.Command{
	Use:   "verify <username>",
	Short: "Re-simulate a stored run",
	Long: `Replay a leaderboard entry without a terminal UI and check that the
simulation reaches the same score. Exits non-zero on a desync or a
score mismatch.

Examples:
  snake verify alice`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(_ *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.policy.Replay(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading replay for %q: %w", args[0], err)
	}

	res, verr := replay.Verify(entry.Run())

	fmt.Printf("Player:   %s\n", entry.Identity)
	fmt.Printf("Seed:     %s\n", entry.Seed)
	fmt.Printf("Moves:    %d\n", len(entry.MoveLog))
	fmt.Printf("Claimed:  %d\n", entry.Score)
	fmt.Printf("Replayed: %d\n", res.Score)
	if res.Outcome != snake.OutcomeNone {
		fmt.Printf("Outcome:  %s\n", res.Outcome)
	}
	fmt.Println()

	if verr != nil {
		fmt.Printf("FAILED: %v\n", verr)
		return errVerifyFailed
	}
	fmt.Println("OK")
	return nil
}
