package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
	"github.com/nyashahama/smartcity-readiness-backend/internal/store"
)

// ─── PUT /api/session/:sessionID/answers ─────────────────────────────────────
//
// Accepts a batch of answers and upserts them. The browser sends the answer
// for the current question on every navigation, or the full set on resume.
// Using upsert means revisiting a question overwrites the earlier value and
// replaying the same payload is harmless.

const maxAnswersPerBatch = 100

// errBadBatch marks structural problems with a batch (400), as opposed to
// values outside a question's domain (422).
var errBadBatch = errors.New("bad answer batch")

type answerInput struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

type upsertAnswersRequest struct {
	Answers []answerInput `json:"answers"`
}

type upsertAnswersResponse struct {
	Upserted int `json:"upserted"`
}

// handleUpsertAnswers batch-upserts answers for a session. Every value is
// checked against its question before anything is written, and the store
// applies the batch atomically, so a rejected batch leaves no partial state.
func (s *Server) handleUpsertAnswers(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req upsertAnswersRequest
	if !decode(w, r, &req) {
		return
	}

	batch, err := s.validateBatch(req.Answers, false)
	if err != nil {
		s.respondBatchErr(w, r, err)
		return
	}

	upserted, err := s.store.UpsertAnswers(r.Context(), session.ID, batch)
	if err != nil {
		s.respondDomainErr(w, r, fmt.Errorf("upsert answers: %w", err))
		return
	}

	respond(w, http.StatusOK, upsertAnswersResponse{Upserted: upserted})
}

// validateBatch checks the batch shape and every value against the catalog,
// and converts it to store rows in request order so the last duplicate wins.
func (s *Server) validateBatch(in []answerInput, allowEmpty bool) ([]store.Answer, error) {
	if len(in) == 0 && !allowEmpty {
		return nil, fmt.Errorf("%w: answers must not be empty", errBadBatch)
	}
	if len(in) > maxAnswersPerBatch {
		return nil, fmt.Errorf("%w: too many answers in a single request (max %d)", errBadBatch, maxAnswersPerBatch)
	}

	out := make([]store.Answer, 0, len(in))
	for _, a := range in {
		if a.QuestionID == "" {
			return nil, fmt.Errorf("%w: each answer must have a non-empty question_id", errBadBatch)
		}
		q, ok := s.catalog.Lookup(a.QuestionID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown question %q", scoring.ErrInvalidAnswer, a.QuestionID)
		}
		if err := scoring.ValidateAnswer(q, a.Value); err != nil {
			return nil, err
		}
		out = append(out, store.Answer{QuestionID: a.QuestionID, Value: a.Value})
	}
	return out, nil
}

func (s *Server) respondBatchErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBadBatch) {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondDomainErr(w, r, err)
}
