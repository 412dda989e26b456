package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/snake-replay/internal/core"
	"github.com/vovakirdan/snake-replay/internal/leaderboard"
	"github.com/vovakirdan/snake-replay/internal/replay"
)

// ScoreItem is one leaderboard row.
type ScoreItem struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// SubmitRequest is the body of POST /api/scores.
type SubmitRequest struct {
	Username   string `json:"username"`
	Score      int    `json:"score"`
	Seed       string `json:"seed"`
	ReplayData string `json:"replayData"`
}

// ReplayResponse is a stored run.
type ReplayResponse struct {
	Username   string `json:"username"`
	Score      int    `json:"score"`
	Seed       string `json:"seed"`
	ReplayData string `json:"replayData"`
}

// SubmitResponse is the stored entry after an accepted submission.
type SubmitResponse struct {
	ReplayResponse
	ID       string `json:"id"`
	Replaced bool   `json:"replaced"`
}

// VerifyResponse reports a server-side re-simulation of a stored run.
type VerifyResponse struct {
	Username      string       `json:"username"`
	ClaimedScore  int          `json:"claimedScore"`
	ReplayedScore int          `json:"replayedScore"`
	Ticks         int          `json:"ticks"`
	FoodTicks     []int        `json:"foodTicks"`
	Outcome       string       `json:"outcome"`
	Valid         bool         `json:"valid"`
	Error         *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Store  string `json:"store,omitempty"`
}

func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	limit := s.limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeInvalid(w, r, "limit must be an integer")
			return
		}
		limit = core.Clamp(n, 1, maxLimit)
	}

	entries, err := s.board.Top(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	items := make([]ScoreItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ScoreItem{Username: e.Identity, Score: e.Score})
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeInvalid(w, r, "malformed JSON body: "+err.Error())
		return
	}

	dec, err := s.board.Admit(r.Context(), leaderboard.Submission{
		Identity: req.Username,
		Score:    req.Score,
		Seed:     req.Seed,
		MoveLog:  req.ReplayData,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if dec.Replaced {
		status = http.StatusOK
	}
	s.writeJSON(w, status, SubmitResponse{
		ReplayResponse: replayResponse(dec.Entry),
		ID:             dec.Entry.ID,
		Replaced:       dec.Replaced,
	})
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	entry, err := s.board.Replay(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, replayResponse(entry))
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	entry, err := s.board.Replay(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, verr := replay.Verify(entry.Run())
	resp := VerifyResponse{
		Username:      entry.Identity,
		ClaimedScore:  entry.Score,
		ReplayedScore: res.Score,
		Ticks:         res.Ticks,
		FoodTicks:     res.FoodTicks,
		Outcome:       res.Outcome.String(),
		Valid:         verr == nil,
	}
	if resp.FoodTicks == nil {
		resp.FoodTicks = []int{}
	}
	if verr != nil {
		rej, _ := leaderboard.AsRejection(leaderboard.Reject(verr))
		resp.Error = &ErrorDetail{Code: rej.Code, Message: verr.Error()}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "healthy",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	}
	status := http.StatusOK

	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Store = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Store = "ok"
		}
	}

	s.writeJSON(w, status, resp)
}

func replayResponse(e leaderboard.Entry) ReplayResponse {
	return ReplayResponse{
		Username:   e.Identity,
		Score:      e.Score,
		Seed:       e.Seed,
		ReplayData: e.MoveLog,
	}
}
