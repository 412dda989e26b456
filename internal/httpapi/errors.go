package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/snake-replay/internal/leaderboard"
)

// CodeStoreUnavailable marks a transient storage failure; clients may retry.
const CodeStoreUnavailable leaderboard.Code = "STORE_UNAVAILABLE"

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a human-readable message.
type ErrorDetail struct {
	Code      leaderboard.Code `json:"code"`
	Message   string           `json:"message"`
	RequestID string           `json:"request_id,omitempty"`
}

// statusFor maps a rejection code to its HTTP status.
func statusFor(code leaderboard.Code) int {
	switch code {
	case leaderboard.CodeDuplicateReplay,
		leaderboard.CodeIdentityScoreNotImproved,
		leaderboard.CodeScoreValueSaturated:
		return http.StatusConflict
	case leaderboard.CodeIdentityNotFound:
		return http.StatusNotFound
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

// writeError renders err. Rejections keep their code; anything else is a store failure.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := CodeStoreUnavailable
	if rej, ok := leaderboard.AsRejection(err); ok {
		code = rej.Code
	}
	status := statusFor(code)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}

	s.writeJSON(w, status, ErrorBody{Error: ErrorDetail{
		Code:      code,
		Message:   err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

// writeInvalid reports a malformed request.
func (s *Server) writeInvalid(w http.ResponseWriter, r *http.Request, msg string) {
	s.writeError(w, r, &leaderboard.Rejection{
		Code: leaderboard.CodeInvalidSubmission,
		Err:  errors.New(msg),
	})
}
