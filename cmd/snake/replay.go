package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/games/snake"
	"github.com/vovakirdan/snake-replay/internal/platform/tui"
	"github.com/vovakirdan/snake-replay/internal/replay"
)

var flagFollow bool

var replayCmd = &cobra.Command{
	Use:   "replay <username>",
	Short: "Watch a stored run",
	Long: `Replay the leaderboard entry of a player move by move.

Controls:
  Space/Enter - Play/pause
  N           - Step one move
  R           - Restart
  Q/Esc       - Quit

A run whose log does not match the simulation is flagged as DESYNC.

With --follow the run plays straight through on stdout without the
interactive viewer; Ctrl+C stops it.

Examples:
  snake replay alice
  snake replay alice --follow`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagFollow, "follow", false, "Play the run on stdout without the interactive viewer")
}

func runReplay(_ *cobra.Command, args []string) error {
	a, err := newApp(!flagFollow)
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := a.policy.Replay(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading replay for %q: %w", args[0], err)
	}

	if flagFollow {
		d, err := replay.New(entry.Run())
		if err != nil {
			return fmt.Errorf("loading replay for %q: %w", args[0], err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		redraw := term.IsTerminal(int(os.Stdout.Fd()))
		res, err := followReplay(ctx, os.Stdout, d, a.cfg.ReplayInterval(), redraw)
		if err != nil && ctx.Err() == nil {
			return err
		}
		printResult(res, entry.Score)
		return nil
	}

	res, err := tui.RunReplay(entry, a.cfg.ReplayInterval())
	if err != nil {
		return err
	}
	printResult(res, entry.Score)
	return nil
}

// followReplay plays d to the end, writing a frame to w on every interval.
// With redraw set, each frame is drawn over the previous one.
func followReplay(ctx context.Context, w io.Writer, d *replay.Driver, interval time.Duration, redraw bool) (replay.Result, error) {
	screen := core.NewScreen(snake.BoardWidth, snake.BoardHeight)
	draw := func() error {
		screen.Clear()
		d.Render(screen, 0, 0)
		idx, total := d.Progress()
		prefix := ""
		if redraw {
			prefix = "\x1b[H\x1b[2J"
		}
		_, err := fmt.Fprintf(w, "%s%s\nmove %d/%d  score %d\n", prefix, screen.String(), idx, total, d.Result().Score)
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	d.Play()
	go func() { done <- d.Run(ctx, interval) }()

	frames := time.NewTicker(interval)
	defer frames.Stop()
	for {
		select {
		case err := <-done:
			if derr := draw(); derr != nil && err == nil {
				err = derr
			}
			return d.Result(), err
		case <-frames.C:
			if err := draw(); err != nil {
				cancel()
				<-done
				return d.Result(), fmt.Errorf("writing frame: %w", err)
			}
		}
	}
}

// printResult summarizes a finished replay after the alt screen closes.
func printResult(res replay.Result, claimed int) {
	switch {
	case !res.Finished:
		fmt.Printf("Stopped at move %d.\n", res.Ticks)
	case res.Err != nil:
		fmt.Printf("DESYNC: %v\n", res.Err)
	case res.Score != claimed:
		fmt.Printf("SCORE MISMATCH: replayed %d, claimed %d\n", res.Score, claimed)
	default:
		fmt.Printf("Replay finished: score %d after %d moves (%s).\n", res.Score, res.Ticks, res.Outcome)
	}
}
