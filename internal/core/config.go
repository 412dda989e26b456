package core

import "time"

// RuntimeConfig contains configuration passed to the live game and the replay
// viewer at initialization.
type RuntimeConfig struct {
	ScreenW      int           // Screen width in characters
	ScreenH      int           // Screen height in characters
	TickInterval time.Duration // Fixed simulation step
	Seed         string        // RNG seed; empty means generate a fresh one
	SeedLength   int           // Length of generated seeds
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:      80,
		ScreenH:      24,
		TickInterval: 50 * time.Millisecond,
		SeedLength:   10,
	}
}
