// Package leaderboard decides which finished runs may enter the persistent
// score table. Storage is reached only through the Store and ClaimTracker
// interfaces; internal/storage provides the SQLite implementation.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/snake-replay/internal/games/snake"
	"github.com/vovakirdan/snake-replay/internal/replay"
)

// MaxIdentityLength bounds a player name after trimming.
const MaxIdentityLength = 32

// Entry is one persisted leaderboard row. Each identity has at most one.
type Entry struct {
	ID        string
	Identity  string
	Score     int
	Seed      string
	MoveLog   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Run returns the replayable part of the entry.
func (e Entry) Run() snake.Run {
	return snake.Run{Seed: e.Seed, MoveLog: e.MoveLog, Score: e.Score}
}

// Submission is a candidate entry for admission.
type Submission struct {
	Identity string
	Score    int
	Seed     string
	MoveLog  string
}

// Store persists entries. Find methods return (nil, nil) when nothing matches.
type Store interface {
	TopScores(ctx context.Context, limit int) ([]Entry, error)
	FindByIdentity(ctx context.Context, identity string) (*Entry, error)
	FindByReplay(ctx context.Context, moveLog string) (*Entry, error)
	Upsert(ctx context.Context, e Entry) (Entry, error)
}

// ClaimTracker records which identities have claimed each score value.
type ClaimTracker interface {
	Claimants(ctx context.Context, score int) ([]string, error)
	AddClaim(ctx context.Context, score int, identity string) error
	RemoveClaim(ctx context.Context, score int, identity string) error
}

// ClaimingStore is a Store that also tracks claims and can save an entry
// together with its claim in one transaction. When a Policy is given the
// same value as store and tracker, it uses this path.
type ClaimingStore interface {
	Store
	ClaimTracker
	UpsertClaimed(ctx context.Context, e Entry) (Entry, error)
}

// Rejection sentinels. Decode and replay failures reuse
// snake.ErrInvalidSymbol, replay.ErrReplayDesync and replay.ErrScoreMismatch.
var (
	ErrDuplicateReplay          = errors.New("leaderboard: replay already submitted")
	ErrIdentityScoreNotImproved = errors.New("leaderboard: score does not beat existing entry")
	ErrScoreValueSaturated      = errors.New("leaderboard: score value already claimed too often")
	ErrInvalidSubmission        = errors.New("leaderboard: invalid submission")
	ErrIdentityNotFound         = errors.New("leaderboard: identity not found")
)

// Code is a stable, machine-readable rejection reason.
type Code string

const (
	CodeDuplicateReplay          Code = "DUPLICATE_REPLAY"
	CodeIdentityScoreNotImproved Code = "IDENTITY_SCORE_NOT_IMPROVED"
	CodeScoreValueSaturated      Code = "SCORE_VALUE_SATURATED"
	CodeInvalidSymbol            Code = "INVALID_SYMBOL"
	CodeReplayDesync             Code = "REPLAY_DESYNC"
	CodeScoreMismatch            Code = "SCORE_MISMATCH"
	CodeInvalidSubmission        Code = "INVALID_SUBMISSION"
	CodeIdentityNotFound         Code = "IDENTITY_NOT_FOUND"
)

// Rejection is a permanent refusal: resubmitting the same data fails the same way.
type Rejection struct {
	Code Code
	Err  error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %v", r.Code, r.Err)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Reject wraps err with the code matching its sentinel.
func Reject(err error) error {
	return &Rejection{Code: codeFor(err), Err: err}
}

func codeFor(err error) Code {
	switch {
	case errors.Is(err, ErrDuplicateReplay):
		return CodeDuplicateReplay
	case errors.Is(err, ErrIdentityScoreNotImproved):
		return CodeIdentityScoreNotImproved
	case errors.Is(err, ErrScoreValueSaturated):
		return CodeScoreValueSaturated
	case errors.Is(err, snake.ErrInvalidSymbol):
		return CodeInvalidSymbol
	case errors.Is(err, replay.ErrReplayDesync):
		return CodeReplayDesync
	case errors.Is(err, replay.ErrScoreMismatch):
		return CodeScoreMismatch
	case errors.Is(err, ErrIdentityNotFound):
		return CodeIdentityNotFound
	default:
		return CodeInvalidSubmission
	}
}

// AsRejection extracts a Rejection from err. Store failures are not rejections.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
