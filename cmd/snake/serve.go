package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-replay/internal/httpapi"
	"github.com/vovakirdan/snake-replay/internal/platform/tui"
)

var (
	flagHTTPAddr string
	flagSSHAddr  string
	flagHostKey  string
	flagNoSSH    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and SSH server",
	Long: `Serve the leaderboard over HTTP and the game over SSH.

Both listeners share one store and one admission policy, so a run
submitted over SSH is visible through the API immediately.

HTTP endpoints:
  GET  /health
  GET  /api/scores?limit=N
  POST /api/scores
  GET  /api/replays/{username}
  GET  /api/replays/{username}/verify

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.snake/host_key

Examples:
  snake serve                    # Addresses from config
  snake serve --http :9000       # HTTP on port 9000
  snake serve --ssh :2222        # SSH on port 2222
  snake serve --no-ssh           # HTTP only

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP API address (default from config)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().BoolVar(&flagNoSSH, "no-ssh", false, "Serve the HTTP API only")
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg.Server
	if flagHTTPAddr != "" {
		cfg.HTTPAddr = flagHTTPAddr
	}
	if flagSSHAddr != "" {
		cfg.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKey = flagHostKey
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := httpapi.NewServer(a.policy, httpapi.Options{
		Logger:       a.logger.WithPrefix("http"),
		Pinger:       a.store,
		DefaultLimit: a.cfg.Leaderboard.TopLimit,
	})

	var ssh *tui.SSHServer
	if !flagNoSSH && cfg.SSHAddr != "" {
		opts := a.tuiOptions("")
		ssh, err = tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.SSHAddr,
			HostKeyPath: cfg.HostKey,
			IdleTimeout: a.cfg.IdleTimeout(),
		}, opts)
		if err != nil {
			return err
		}
	}

	// First listener to fail stops the other.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 1
	go func() {
		errCh <- api.ListenAndServe(ctx, cfg.HTTPAddr)
	}()
	if ssh != nil {
		running++
		go func() {
			errCh <- ssh.ListenAndServe(ctx)
		}()
		a.logger.Info("connect with: ssh localhost -p <port>", "address", ssh.Addr())
	}

	var errs []error
	for range running {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
			cancel()
		}
	}
	return errors.Join(errs...)
}
