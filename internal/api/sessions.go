package api

import (
	"fmt"
	"net/http"
)

// ─── POST /api/session ────────────────────────────────────────────────────────

// createSessionRequest is optional. A client resuming from local state may
// seed the new session with answers it already collected.
type createSessionRequest struct {
	Answers []answerInput `json:"answers"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	AnonToken string `json:"anon_token"`
	Total     int    `json:"total"`
}

// handleCreateSession creates an anonymous session for a new visitor.
// Called once when the assessment page first loads.
//
// The anon_token is returned to the browser and stored client-side. It is
// sent as X-Anon-Token on all subsequent session-scoped requests.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	batch, err := s.validateBatch(req.Answers, true)
	if err != nil {
		s.respondBatchErr(w, r, err)
		return
	}

	anonToken, err := newAnonToken()
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	// The seed is written in the same transaction as the session: a session
	// is only handed out once every seeded answer is stored.
	session, err := s.store.CreateSession(r.Context(), anonToken, batch)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create session: %w", err))
		return
	}

	s.logger.Info("session created", "session_id", session.ID, "seeded", len(batch), logField(r))

	respond(w, http.StatusCreated, createSessionResponse{
		SessionID: session.ID.String(),
		AnonToken: anonToken,
		Total:     s.catalog.Len(),
	})
}
