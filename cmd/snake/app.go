package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-replay/internal/config"
	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/leaderboard"
	"github.com/vovakirdan/snake-replay/internal/platform/tui"
	"github.com/vovakirdan/snake-replay/internal/storage"
)

// app bundles what every command needs: config, logger, store and policy.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	store   *storage.Store
	policy  *leaderboard.Policy
	logFile *os.File
}

// newApp loads config, applies flag overrides and opens the leaderboard.
// Interactive commands log to ~/.snake/snake.log so output does not
// tear through the alt screen.
func newApp(interactive bool) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	var out io.Writer = os.Stderr
	if interactive {
		out = io.Discard
		if f, ferr := openLogFile(); ferr == nil {
			a.logFile = f
			out = f
		}
	}
	a.logger = newLogger(out, cfg.Log.Level)

	a.store, err = storage.Open(cfg.Storage.DBPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening scores database: %w", err)
	}

	// The global cap scope persists claims; session scope forgets them on exit.
	var claims leaderboard.ClaimTracker = a.store
	if cfg.Leaderboard.CapScope == config.CapScopeSession {
		claims = leaderboard.NewSessionClaims()
	}
	a.policy = leaderboard.NewPolicy(a.store, claims, leaderboard.Options{
		ScoreValueCap: cfg.Leaderboard.ScoreValueCap,
		VerifyReplays: cfg.Leaderboard.VerifyReplays,
		Logger:        a.logger.WithPrefix("leaderboard"),
	})

	a.logger.Debug("ready",
		"db", cfg.Storage.DBPath,
		"cap", cfg.Leaderboard.ScoreValueCap,
		"scope", cfg.Leaderboard.CapScope,
		"verify", cfg.Leaderboard.VerifyReplays,
	)
	return a, nil
}

// Close releases the store and the log file.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing store", "error", err)
		}
	}
	if a.logFile != nil {
		//nolint:errcheck // Nothing useful to do on failure
		a.logFile.Close()
	}
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".snake")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "snake.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// tuiOptions builds screen options sized to the current terminal.
func (a *app) tuiOptions(seed string) tui.Options {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return tui.Options{
		Board: a.policy,
		Runtime: core.RuntimeConfig{
			ScreenW:      width,
			ScreenH:      height,
			TickInterval: a.cfg.TickInterval(),
			Seed:         seed,
			SeedLength:   a.cfg.Game.SeedLength,
		},
		ReplayInterval: a.cfg.ReplayInterval(),
		TopLimit:       a.cfg.Leaderboard.TopLimit,
		Username:       localUsername(),
		Logger:         a.logger,
	}
}

func (a *app) tuiSession() error {
	return tui.RunSession(a.tuiOptions(""))
}

// localUsername offers the OS account name as the default identity.
func localUsername() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	name := leaderboard.NormalizeIdentity(u.Username)
	if len([]rune(name)) > leaderboard.MaxIdentityLength {
		return ""
	}
	return name
}
