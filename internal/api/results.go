package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
	"github.com/nyashahama/smartcity-readiness-backend/internal/store"
)

// ─── GET /api/result/:accessToken ────────────────────────────────────────────

type resultResponse struct {
	SessionID   string         `json:"session_id"`
	Result      scoring.Result `json:"result"`
	GeneratedAt string         `json:"generated_at"`
}

// handleGetResult serves a stored Result. The access token is the opaque
// string returned by submit, so no session authentication is needed.
//
// Returns 404 for an unknown token.
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	accessToken := chi.URLParam(r, "accessToken")
	if accessToken == "" {
		respondErr(w, http.StatusBadRequest, "missing access token")
		return
	}

	stored, err := s.store.GetResultByAccessToken(r.Context(), accessToken)
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get result: %w", err))
		return
	}

	respond(w, http.StatusOK, resultResponse{
		SessionID:   stored.SessionID.String(),
		Result:      stored.Result,
		GeneratedAt: stored.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}
