package api

import (
	"net/http"

	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
)

// ─── POST /api/score ──────────────────────────────────────────────────────────
//
// Stateless scoring: the caller sends a complete answer map and gets the
// Result back. Nothing is persisted.

type scoreRequest struct {
	Answers map[string]string `json:"answers"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := scoring.ComputeResult(scoring.AnswerSet(req.Answers), s.catalog)
	if err != nil {
		s.respondDomainErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, result)
}
