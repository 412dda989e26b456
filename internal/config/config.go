// Package config provides YAML-based configuration loading for snake-replay.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Cap scopes for the score value cap.
const (
	CapScopeGlobal  = "global"
	CapScopeSession = "session"
)

// Config contains all runtime configuration.
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Game        GameConfig        `yaml:"game"`
	Replay      ReplayConfig      `yaml:"replay"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// StorageConfig locates the scores database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// GameConfig defines live play parameters.
type GameConfig struct {
	TickMS     int `yaml:"tick_ms"`
	SeedLength int `yaml:"seed_length"`
}

// ReplayConfig defines replay playback parameters.
type ReplayConfig struct {
	TickMS int `yaml:"tick_ms"`
}

// LeaderboardConfig defines the admission policy.
type LeaderboardConfig struct {
	ScoreValueCap int    `yaml:"score_value_cap"`
	CapScope      string `yaml:"cap_scope"`
	VerifyReplays bool   `yaml:"verify_replays"`
	TopLimit      int    `yaml:"top_limit"`
}

// ServerConfig defines the HTTP and SSH listeners.
type ServerConfig struct {
	HTTPAddr           string `yaml:"http_addr"`
	SSHAddr            string `yaml:"ssh_addr"`
	HostKey            string `yaml:"host_key"` // empty: ~/.snake/host_key
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// LogConfig defines logging verbosity.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// TickInterval returns the live game tick.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Game.TickMS) * time.Millisecond
}

// ReplayInterval returns the replay playback tick.
func (c Config) ReplayInterval() time.Duration {
	return time.Duration(c.Replay.TickMS) * time.Millisecond
}

// IdleTimeout returns the SSH idle timeout.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutMinutes) * time.Minute
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Storage.DBPath == "" {
		errs = append(errs, errors.New("storage.db_path must be set"))
	}
	if c.Game.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("game.tick_ms must be positive, got %d", c.Game.TickMS))
	}
	if c.Game.SeedLength <= 0 || c.Game.SeedLength > 64 {
		errs = append(errs, fmt.Errorf("game.seed_length must be in 1..64, got %d", c.Game.SeedLength))
	}
	if c.Replay.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("replay.tick_ms must be positive, got %d", c.Replay.TickMS))
	}
	if c.Leaderboard.ScoreValueCap <= 0 {
		errs = append(errs, fmt.Errorf("leaderboard.score_value_cap must be positive, got %d", c.Leaderboard.ScoreValueCap))
	}
	switch c.Leaderboard.CapScope {
	case CapScopeGlobal, CapScopeSession:
	default:
		errs = append(errs, fmt.Errorf("leaderboard.cap_scope must be %q or %q, got %q", CapScopeGlobal, CapScopeSession, c.Leaderboard.CapScope))
	}
	if c.Leaderboard.TopLimit <= 0 {
		errs = append(errs, fmt.Errorf("leaderboard.top_limit must be positive, got %d", c.Leaderboard.TopLimit))
	}
	if c.Server.IdleTimeoutMinutes < 0 {
		errs = append(errs, fmt.Errorf("server.idle_timeout_minutes must not be negative, got %d", c.Server.IdleTimeoutMinutes))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
