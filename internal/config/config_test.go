package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("Embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Embedded YAML and Default() differ:\n%+v\n%+v", cfg, Default())
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() is invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := `
game:
  tick_ms: 80
leaderboard:
  cap_scope: session
  score_value_cap: 5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.TickInterval() != 80*time.Millisecond {
		t.Errorf("TickInterval() = %v, expected 80ms", cfg.TickInterval())
	}
	if cfg.Leaderboard.CapScope != CapScopeSession || cfg.Leaderboard.ScoreValueCap != 5 {
		t.Errorf("Leaderboard overrides not applied: %+v", cfg.Leaderboard)
	}
	// Unset keys keep defaults
	if cfg.ReplayInterval() != 52*time.Millisecond {
		t.Errorf("ReplayInterval() = %v, expected default 52ms", cfg.ReplayInterval())
	}
	if !cfg.Leaderboard.VerifyReplays {
		t.Error("VerifyReplays should keep its default")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	badYAML := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("game: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("game:\n  tick_ms: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), "failed to read"},
		{"bad yaml", badYAML, "failed to parse"},
		{"invalid value", invalid, "game.tick_ms"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.path)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded default
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Expected defaults, got %+v", cfg)
	}

	// Local configs directory
	if err := os.MkdirAll(filepath.Join(work, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, "configs", "snake.yaml"), []byte("replay:\n  tick_ms: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Replay.TickMS != 100 {
		t.Errorf("Local config not used, replay.tick_ms = %d", cfg.Replay.TickMS)
	}

	// User config wins over the local one
	if err := os.MkdirAll(filepath.Join(home, ".snake"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, ".snake", "config.yaml"), []byte("replay:\n  tick_ms: 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Replay.TickMS != 200 {
		t.Errorf("User config not preferred, replay.tick_ms = %d", cfg.Replay.TickMS)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, "storage.db_path"},
		{"zero tick", func(c *Config) { c.Game.TickMS = 0 }, "game.tick_ms"},
		{"long seed", func(c *Config) { c.Game.SeedLength = 65 }, "game.seed_length"},
		{"negative replay tick", func(c *Config) { c.Replay.TickMS = -1 }, "replay.tick_ms"},
		{"zero cap", func(c *Config) { c.Leaderboard.ScoreValueCap = 0 }, "score_value_cap"},
		{"unknown scope", func(c *Config) { c.Leaderboard.CapScope = "planet" }, "cap_scope"},
		{"zero top limit", func(c *Config) { c.Leaderboard.TopLimit = 0 }, "top_limit"},
		{"negative idle", func(c *Config) { c.Server.IdleTimeoutMinutes = -5 }, "idle_timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Error %q should mention %q", err, tc.want)
			}
		})
	}

	// Several problems are reported together
	cfg := Default()
	cfg.Game.TickMS = 0
	cfg.Log.Level = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "game.tick_ms") || !strings.Contains(err.Error(), "log.level") {
		t.Errorf("Expected both errors, got %v", err)
	}
}
