package config

import (
	_ "embed"
)

//go:embed defaults/snake.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It mirrors defaults/snake.yaml.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			DBPath: "~/.snake/scores.db",
		},
		Game: GameConfig{
			TickMS:     50,
			SeedLength: 10,
		},
		Replay: ReplayConfig{
			TickMS: 52,
		},
		Leaderboard: LeaderboardConfig{
			ScoreValueCap: 2,
			CapScope:      CapScopeGlobal,
			VerifyReplays: true,
			TopLimit:      10,
		},
		Server: ServerConfig{
			HTTPAddr:           ":8080",
			SSHAddr:            ":23234",
			IdleTimeoutMinutes: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
