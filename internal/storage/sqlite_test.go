package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/snake-replay/internal/leaderboard"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.Upsert(ctx, leaderboard.Entry{Identity: "alice", Score: 4, Seed: "abc", MoveLog: "rrd"}); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer store.Close()

	e, err := store.FindByIdentity(ctx, "alice")
	if err != nil || e == nil {
		t.Fatalf("FindByIdentity() = %v, %v", e, err)
	}
	if e.Score != 4 || e.MoveLog != "rrd" {
		t.Errorf("Unexpected entry after reopen: %+v", e)
	}
}

func TestStoreUpsertAndFind(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Upsert(ctx, leaderboard.Entry{Identity: "alice", Score: 3, Seed: "Seed1", MoveLog: "rr"})
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if first.ID == "" {
		t.Fatal("Upsert() should assign an ID")
	}
	if first.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	second, err := store.Upsert(ctx, leaderboard.Entry{Identity: "alice", Score: 8, Seed: "Seed2", MoveLog: "rd"})
	if err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Replacement should keep ID %q, got %q", first.ID, second.ID)
	}
	if second.Score != 8 || second.Seed != "Seed2" || second.MoveLog != "rd" {
		t.Errorf("Replacement not applied: %+v", second)
	}

	byReplay, err := store.FindByReplay(ctx, "rd")
	if err != nil || byReplay == nil {
		t.Fatalf("FindByReplay() = %v, %v", byReplay, err)
	}
	if byReplay.Identity != "alice" {
		t.Errorf("FindByReplay() identity = %q", byReplay.Identity)
	}

	// The replaced log is gone
	old, err := store.FindByReplay(ctx, "rr")
	if err != nil {
		t.Fatalf("FindByReplay() failed: %v", err)
	}
	if old != nil {
		t.Errorf("Old log should no longer match, got %+v", old)
	}

	missing, err := store.FindByIdentity(ctx, "bob")
	if err != nil || missing != nil {
		t.Errorf("FindByIdentity(missing) = %v, %v", missing, err)
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	scores := []int{100, 50, 200, 75}
	for i, score := range scores {
		_, err := store.Upsert(ctx, leaderboard.Entry{
			Identity: fmt.Sprintf("player%d", i),
			Score:    score,
			Seed:     "abc",
			MoveLog:  fmt.Sprintf("%0*d", i+1, 0),
		})
		if err != nil {
			t.Fatalf("Upsert() failed: %v", err)
		}
	}

	top, err := store.TopScores(ctx, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	expected := []int{200, 100, 75, 50}
	if len(top) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(top))
	}
	for i := range expected {
		if top[i].Score != expected[i] {
			t.Errorf("top[%d].Score = %d, expected %d", i, top[i].Score, expected[i])
		}
	}

	all, err := store.AllEntries(ctx)
	if err != nil {
		t.Fatalf("AllEntries() failed: %v", err)
	}
	if len(all) != len(scores) {
		t.Errorf("AllEntries() len = %d, expected %d", len(all), len(scores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := range 20 {
		_, err := store.Upsert(ctx, leaderboard.Entry{
			Identity: fmt.Sprintf("player%d", i),
			Score:    i * 10,
			Seed:     "abc",
			MoveLog:  fmt.Sprintf("log%d", i),
		})
		if err != nil {
			t.Fatalf("Upsert() failed: %v", err)
		}
	}

	tests := []struct {
		limit    int
		expected int
	}{
		{5, 5},
		{0, 10}, // default
		{50, 20},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("limit=%d", tc.limit), func(t *testing.T) {
			top, err := store.TopScores(ctx, tc.limit)
			if err != nil {
				t.Fatalf("TopScores() failed: %v", err)
			}
			if len(top) != tc.expected {
				t.Errorf("Expected %d entries, got %d", tc.expected, len(top))
			}
			if top[0].Score != 190 {
				t.Errorf("Expected top score 190, got %d", top[0].Score)
			}
		})
	}
}

func TestStoreClaims(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"alice", "bob", "alice"} {
		if err := store.AddClaim(ctx, 7, id); err != nil {
			t.Fatalf("AddClaim() failed: %v", err)
		}
	}

	ids, err := store.Claimants(ctx, 7)
	if err != nil {
		t.Fatalf("Claimants() failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 distinct claimants, got %v", ids)
	}

	none, err := store.Claimants(ctx, 8)
	if err != nil {
		t.Fatalf("Claimants() failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no claimants, got %v", none)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Upsert(ctx, leaderboard.Entry{Identity: "alice", Score: 1, Seed: "a", MoveLog: "r"}); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if err := store.AddClaim(ctx, 1, "alice"); err != nil {
		t.Fatalf("AddClaim() failed: %v", err)
	}

	if err := store.ClearScores(ctx); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	top, err := store.TopScores(ctx, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("Expected no entries after clear, got %d", len(top))
	}

	ids, _ := store.Claimants(ctx, 1)
	if len(ids) != 1 {
		t.Errorf("Claims should survive a clear, got %v", ids)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if empty.Entries != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Unexpected stats on empty store: %+v", empty)
	}

	entries := []leaderboard.Entry{
		{Identity: "a", Score: 2, Seed: "s", MoveLog: "rr"},
		{Identity: "b", Score: 6, Seed: "s", MoveLog: "rrdd"},
	}
	for _, e := range entries {
		if _, err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert() failed: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Entries != 2 || stats.BestScore != 6 || stats.AvgScore != 4 || stats.TotalMoves != 6 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestPolicyWithSQLite(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	p := leaderboard.NewPolicy(store, store, leaderboard.Options{ScoreValueCap: 2})

	admit := func(id string, score int, log string) error {
		_, err := p.Admit(ctx, leaderboard.Submission{Identity: id, Score: score, Seed: "Seed000001", MoveLog: log})
		return err
	}

	if err := admit("alice", 3, "rrr"); err != nil {
		t.Fatalf("Admit() error: %v", err)
	}
	if err := admit("bob", 3, "rrr"); !errors.Is(err, leaderboard.ErrDuplicateReplay) {
		t.Errorf("Expected duplicate replay, got %v", err)
	}
	if err := admit("bob", 3, "rrd"); err != nil {
		t.Fatalf("Admit() error: %v", err)
	}
	if err := admit("carol", 3, "rdd"); !errors.Is(err, leaderboard.ErrScoreValueSaturated) {
		t.Errorf("Expected saturated score value, got %v", err)
	}
	if err := admit("alice", 2, "ddd"); !errors.Is(err, leaderboard.ErrIdentityScoreNotImproved) {
		t.Errorf("Expected not improved, got %v", err)
	}

	// Claims are durable: a fresh policy on the same store still enforces the cap
	p = leaderboard.NewPolicy(store, store, leaderboard.Options{ScoreValueCap: 2})
	if err := admit("dave", 3, "ddl"); !errors.Is(err, leaderboard.ErrScoreValueSaturated) {
		t.Errorf("Expected saturated score value after restart, got %v", err)
	}

	top, err := p.Top(ctx, 10)
	if err != nil {
		t.Fatalf("Top() error: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(top))
	}
}

func TestUpsertClaimed(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	e, err := store.UpsertClaimed(ctx, leaderboard.Entry{Identity: "alice", Score: 5, Seed: "abc", MoveLog: "rrd"})
	if err != nil {
		t.Fatalf("UpsertClaimed() failed: %v", err)
	}
	if e.ID == "" || e.Score != 5 {
		t.Errorf("Unexpected stored entry %+v", e)
	}
	ids, err := store.Claimants(ctx, 5)
	if err != nil {
		t.Fatalf("Claimants() failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "alice" {
		t.Errorf("Claimants(5) = %v, expected [alice]", ids)
	}

	if err := store.RemoveClaim(ctx, 5, "alice"); err != nil {
		t.Fatalf("RemoveClaim() failed: %v", err)
	}
	if ids, _ := store.Claimants(ctx, 5); len(ids) != 0 {
		t.Errorf("Claimants(5) after remove = %v, expected none", ids)
	}
}

// failClaims makes every claim insert abort until the returned func runs.
func failClaims(t *testing.T, store *Store) (restore func()) {
	t.Helper()
	_, err := store.db.Exec(`CREATE TRIGGER fail_claims BEFORE INSERT ON score_claims
		BEGIN SELECT RAISE(ABORT, 'claims unavailable'); END`)
	if err != nil {
		t.Fatalf("Cannot create trigger: %v", err)
	}
	return func() {
		if _, err := store.db.Exec(`DROP TRIGGER fail_claims`); err != nil {
			t.Fatalf("Cannot drop trigger: %v", err)
		}
	}
}

func TestUpsertClaimedRollsBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	restore := failClaims(t, store)
	if _, err := store.UpsertClaimed(ctx, leaderboard.Entry{Identity: "alice", Score: 5, Seed: "abc", MoveLog: "rrd"}); err == nil {
		t.Fatal("UpsertClaimed() should fail when the claim cannot be written")
	}
	restore()

	found, err := store.FindByIdentity(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByIdentity() failed: %v", err)
	}
	if found != nil {
		t.Errorf("Run should be rolled back with its claim, found %+v", found)
	}
}

func TestPolicyClaimFailureWithSQLite(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	p := leaderboard.NewPolicy(store, store, leaderboard.Options{ScoreValueCap: 2})

	admit := func(id string, score int, log string) error {
		_, err := p.Admit(ctx, leaderboard.Submission{Identity: id, Score: score, Seed: "Seed000001", MoveLog: log})
		return err
	}

	if err := admit("alice", 4, "r"); err != nil {
		t.Fatalf("Admit(alice) error: %v", err)
	}

	restore := failClaims(t, store)
	err := admit("bob", 4, "rr")
	if err == nil {
		t.Fatal("Admit(bob) should fail while claims cannot be written")
	}
	if _, ok := leaderboard.AsRejection(err); ok {
		t.Errorf("Store failure must not be reported as a rejection: %v", err)
	}
	if found, _ := store.FindByIdentity(ctx, "bob"); found != nil {
		t.Errorf("Failed admission must not persist the run, found %+v", found)
	}
	restore()

	// Same submission again: accepted, not a duplicate
	if err := admit("bob", 4, "rr"); err != nil {
		t.Fatalf("Retry should succeed: %v", err)
	}
	if err := admit("carol", 4, "rrr"); !errors.Is(err, leaderboard.ErrScoreValueSaturated) {
		t.Errorf("Expected saturated score value, got %v", err)
	}

	ids, err := store.Claimants(ctx, 4)
	if err != nil {
		t.Fatalf("Claimants() failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Claimants(4) = %v, expected exactly two", ids)
	}
}
