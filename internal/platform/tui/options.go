package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/leaderboard"
)

// Leaderboard is what the screens need from the admission policy.
type Leaderboard interface {
	Admit(ctx context.Context, sub leaderboard.Submission) (leaderboard.Decision, error)
	Replay(ctx context.Context, identity string) (leaderboard.Entry, error)
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

// Options configures the terminal screens.
type Options struct {
	Board          Leaderboard // nil runs offline: nothing is submitted
	Runtime        core.RuntimeConfig
	ReplayInterval time.Duration
	TopLimit       int
	Username       string // default name offered when submitting
	Logger         *log.Logger
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	def := core.DefaultConfig()
	if o.Runtime.TickInterval <= 0 {
		o.Runtime.TickInterval = def.TickInterval
	}
	if o.Runtime.SeedLength <= 0 {
		o.Runtime.SeedLength = def.SeedLength
	}
	if o.ReplayInterval <= 0 {
		o.ReplayInterval = 52 * time.Millisecond
	}
	if o.TopLimit <= 0 {
		o.TopLimit = 10
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

const boardTimeout = 5 * time.Second

// rejectionText turns an admission error into a line for the player.
func rejectionText(err error) string {
	rej, ok := leaderboard.AsRejection(err)
	if !ok {
		return "Leaderboard unavailable, press Enter to retry"
	}
	switch rej.Code {
	case leaderboard.CodeDuplicateReplay:
		return "This run is already on the leaderboard"
	case leaderboard.CodeIdentityScoreNotImproved:
		return "Not saved: your leaderboard entry is already as good"
	case leaderboard.CodeScoreValueSaturated:
		return "Not saved: too many players already hold this score"
	case leaderboard.CodeInvalidSubmission:
		return fmt.Sprintf("Not saved: name must be 1-%d characters, press Enter to edit", leaderboard.MaxIdentityLength)
	default:
		return "Not saved: run failed verification (" + string(rej.Code) + ")"
	}
}
