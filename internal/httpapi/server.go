// Package httpapi exposes the leaderboard over JSON/HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/snake-replay/internal/leaderboard"
)

// Leaderboard is the admission policy as seen by the API.
type Leaderboard interface {
	Admit(ctx context.Context, sub leaderboard.Submission) (leaderboard.Decision, error)
	Replay(ctx context.Context, identity string) (leaderboard.Entry, error)
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	Logger         *log.Logger
	Pinger         Pinger        // optional, enables the store check in /health
	DefaultLimit   int           // GET /api/scores without ?limit
	RequestTimeout time.Duration // per-request deadline
}

const (
	maxLimit     = 100
	maxBodyBytes = 1 << 20
)

// Server handles HTTP requests.
type Server struct {
	board     Leaderboard
	pinger    Pinger
	logger    *log.Logger
	limit     int
	timeout   time.Duration
	startTime time.Time
}

// NewServer creates a new API server.
func NewServer(board Leaderboard, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Server{
		board:     board,
		pinger:    opts.Pinger,
		logger:    opts.Logger,
		limit:     opts.DefaultLimit,
		timeout:   opts.RequestTimeout,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/scores", s.handleTopScores)
		r.Post("/scores", s.handleSubmit)
		r.Get("/replays/{username}", s.handleReplay)
		r.Get("/replays/{username}/verify", s.handleVerify)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
			"remote", r.RemoteAddr,
		)
	})
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("cannot encode response", "error", err)
	}
}
