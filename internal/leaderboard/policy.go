package leaderboard

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-replay/internal/games/snake"
	"github.com/vovakirdan/snake-replay/internal/replay"
	"github.com/vovakirdan/snake-replay/internal/rng"
)

// DefaultScoreValueCap is how many distinct identities may hold the same score.
const DefaultScoreValueCap = 2

// Options tunes a Policy.
type Options struct {
	// ScoreValueCap limits distinct identities per score value. Zero means default.
	ScoreValueCap int

	// VerifyReplays re-simulates every submission before admitting it.
	VerifyReplays bool

	// Logger receives admission decisions. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		ScoreValueCap: DefaultScoreValueCap,
		VerifyReplays: true,
	}
}

// Policy admits or rejects submissions against a Store.
type Policy struct {
	mu       sync.Mutex
	store    Store
	claims   ClaimTracker
	atomic   ClaimingStore // set when store and claims are the same value
	scoreCap int
	verify   bool
	logger   *log.Logger
}

// Decision describes an accepted submission.
type Decision struct {
	Entry    Entry
	Replaced bool // an existing entry for the identity was overwritten
}

// NewPolicy creates a policy. claims may be the store itself or a SessionClaims.
func NewPolicy(store Store, claims ClaimTracker, opts Options) *Policy {
	if opts.ScoreValueCap <= 0 {
		opts.ScoreValueCap = DefaultScoreValueCap
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	p := &Policy{
		store:    store,
		claims:   claims,
		scoreCap: opts.ScoreValueCap,
		verify:   opts.VerifyReplays,
		logger:   opts.Logger,
	}
	if cs, ok := store.(ClaimingStore); ok {
		if ct, ok := claims.(ClaimingStore); ok && cs == ct {
			p.atomic = cs
		}
	}
	return p
}

// NormalizeIdentity trims surrounding whitespace from a player name.
func NormalizeIdentity(identity string) string {
	return strings.TrimSpace(identity)
}

// Admit runs the admission checks in order and persists the run if all pass.
// Rejections are returned as *Rejection; any other error is a store failure
// and the same submission may be retried.
func (p *Policy) Admit(ctx context.Context, sub Submission) (Decision, error) {
	sub.Identity = NormalizeIdentity(sub.Identity)

	if err := validate(sub); err != nil {
		return p.rejected(sub, err)
	}

	if _, err := snake.DecodeMoves(sub.MoveLog); err != nil {
		return p.rejected(sub, err)
	}

	if p.verify {
		if _, err := replay.Verify(snake.Run{Seed: sub.Seed, MoveLog: sub.MoveLog, Score: sub.Score}); err != nil {
			return p.rejected(sub, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	dup, err := p.store.FindByReplay(ctx, sub.MoveLog)
	if err != nil {
		return Decision{}, fmt.Errorf("leaderboard: lookup replay: %w", err)
	}
	if dup != nil {
		return p.rejected(sub, fmt.Errorf("%w: matches entry of %q", ErrDuplicateReplay, dup.Identity))
	}

	existing, err := p.store.FindByIdentity(ctx, sub.Identity)
	if err != nil {
		return Decision{}, fmt.Errorf("leaderboard: lookup identity: %w", err)
	}
	if existing != nil && sub.Score <= existing.Score {
		return p.rejected(sub, fmt.Errorf("%w: best is %d", ErrIdentityScoreNotImproved, existing.Score))
	}

	claimants, err := p.claims.Claimants(ctx, sub.Score)
	if err != nil {
		return Decision{}, fmt.Errorf("leaderboard: lookup claims: %w", err)
	}
	claimed := contains(claimants, sub.Identity)
	if !claimed && len(claimants) >= p.scoreCap {
		return p.rejected(sub, fmt.Errorf("%w: %d identities hold %d", ErrScoreValueSaturated, len(claimants), sub.Score))
	}

	entry := Entry{
		Identity: sub.Identity,
		Score:    sub.Score,
		Seed:     sub.Seed,
		MoveLog:  sub.MoveLog,
	}
	if existing != nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	}

	stored, err := p.persist(ctx, entry, claimed)
	if err != nil {
		return Decision{}, err
	}

	p.logger.Info("run admitted",
		"identity", stored.Identity,
		"score", stored.Score,
		"moves", len(stored.MoveLog),
		"replaced", existing != nil,
	)
	return Decision{Entry: stored, Replaced: existing != nil}, nil
}

// persist saves entry and its score claim so that either both land or
// neither does. A failure leaves nothing behind, so the same submission
// can be retried unchanged.
func (p *Policy) persist(ctx context.Context, entry Entry, claimed bool) (Entry, error) {
	if p.atomic != nil {
		stored, err := p.atomic.UpsertClaimed(ctx, entry)
		if err != nil {
			return Entry{}, fmt.Errorf("leaderboard: save entry: %w", err)
		}
		return stored, nil
	}

	// Claim first: a claim without an entry only tightens the cap, and it is
	// released below when the save fails.
	if !claimed {
		if err := p.claims.AddClaim(ctx, entry.Score, entry.Identity); err != nil {
			return Entry{}, fmt.Errorf("leaderboard: record claim: %w", err)
		}
	}

	stored, err := p.store.Upsert(ctx, entry)
	if err != nil {
		if !claimed {
			if rerr := p.claims.RemoveClaim(ctx, entry.Score, entry.Identity); rerr != nil {
				p.logger.Warn("cannot release claim", "identity", entry.Identity, "score", entry.Score, "error", rerr)
			}
		}
		return Entry{}, fmt.Errorf("leaderboard: save entry: %w", err)
	}
	return stored, nil
}

func (p *Policy) rejected(sub Submission, err error) (Decision, error) {
	r := Reject(err)
	p.logger.Debug("run rejected", "identity", sub.Identity, "score", sub.Score, "error", r)
	return Decision{}, r
}

// Replay returns the stored entry for identity.
func (p *Policy) Replay(ctx context.Context, identity string) (Entry, error) {
	identity = NormalizeIdentity(identity)
	e, err := p.store.FindByIdentity(ctx, identity)
	if err != nil {
		return Entry{}, fmt.Errorf("leaderboard: lookup identity: %w", err)
	}
	if e == nil {
		return Entry{}, Reject(fmt.Errorf("%w: %q", ErrIdentityNotFound, identity))
	}
	return *e, nil
}

// Top returns up to limit entries, best first.
func (p *Policy) Top(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := p.store.TopScores(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: top scores: %w", err)
	}
	return entries, nil
}

func validate(sub Submission) error {
	switch {
	case sub.Identity == "":
		return fmt.Errorf("%w: identity is empty", ErrInvalidSubmission)
	case utf8.RuneCountInString(sub.Identity) > MaxIdentityLength:
		return fmt.Errorf("%w: identity longer than %d characters", ErrInvalidSubmission, MaxIdentityLength)
	case !rng.ValidSeed(sub.Seed):
		return fmt.Errorf("%w: seed must be alphanumeric", ErrInvalidSubmission)
	case sub.Score < 0:
		return fmt.Errorf("%w: negative score", ErrInvalidSubmission)
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}
