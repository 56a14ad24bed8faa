package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
	"github.com/nyashahama/smartcity-readiness-backend/internal/store"
)

// ─── POST /api/session/:sessionID/submit ─────────────────────────────────────
//
// Scores the session's stored answers exactly once and persists the Result.
// The response carries an access token; the result page fetches the Result
// with it instead of reading any shared slot.

type submitResponse struct {
	AccessToken string         `json:"access_token"`
	ResultURL   string         `json:"result_url"`
	Result      scoring.Result `json:"result"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	if session.Submitted() {
		respondErr(w, http.StatusConflict, "session already submitted")
		return
	}

	answers, err := s.store.GetAnswers(r.Context(), session.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("submit: load answers: %w", err))
		return
	}

	result, err := scoring.ComputeResult(answers, s.catalog)
	if err != nil {
		s.respondDomainErr(w, r, fmt.Errorf("submit: %w", err))
		return
	}

	accessToken, err := newAccessToken()
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	// SaveResult re-checks the submitted flag inside its transaction, so two
	// racing submits still produce exactly one result.
	if _, err := s.store.SaveResult(r.Context(), store.SaveResultParams{
		SessionID:   session.ID,
		AccessToken: accessToken,
		Result:      result,
	}); err != nil {
		s.respondDomainErr(w, r, fmt.Errorf("submit: save result: %w", err))
		return
	}

	s.logger.Info("session submitted",
		"session_id", session.ID,
		"answered", len(answers),
		"overall_score", result.OverallScore,
		"recommendation", result.Recommendation,
		logField(r),
	)

	respond(w, http.StatusCreated, submitResponse{
		AccessToken: accessToken,
		ResultURL:   strings.TrimRight(s.cfg.BaseURL, "/") + "/api/result/" + accessToken,
		Result:      result,
	})
}
