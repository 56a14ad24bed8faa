package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
	"github.com/sqlc-dev/pqtype"
)

// ─── TYPES ───────────────────────────────────────────────────────────────────

// SaveResultParams is everything the submit handler hands to the store once
// scoring has finished.
type SaveResultParams struct {
	SessionID   uuid.UUID
	AccessToken string // opaque token the respondent uses to fetch the result
	Result      scoring.Result
}

// StoredResult is a persisted Result plus its bookkeeping.
type StoredResult struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	AccessToken string
	Result      scoring.Result
	CreatedAt   time.Time
}

// ─── METHODS ─────────────────────────────────────────────────────────────────

// SaveResult atomically:
//
//  1. Re-reads the session and refuses if it is already submitted.
//  2. Marks the session submitted.
//  3. Inserts the result row with a JSON snapshot of the Result.
//
// A second submission for the same session returns ErrAlreadySubmitted. The
// UNIQUE constraint on results.session_id backs this up if two submissions
// race past step 1.
func (s *Store) SaveResult(ctx context.Context, p SaveResultParams) (StoredResult, error) {
	if err := p.Result.Validate(); err != nil {
		return StoredResult{}, fmt.Errorf("SaveResult: %w", err)
	}

	resultJSON, err := json.Marshal(p.Result)
	if err != nil {
		return StoredResult{}, fmt.Errorf("SaveResult: marshal result: %w", err)
	}

	stored := StoredResult{
		ID:          uuid.New(),
		SessionID:   p.SessionID,
		AccessToken: p.AccessToken,
		Result:      p.Result,
		CreatedAt:   now(),
	}

	err = s.withTx(ctx, func(ctx context.Context, q querier) error {
		sess, err := getSession(ctx, q, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, p.SessionID)
		if err != nil {
			return err
		}
		if sess.Submitted() {
			return ErrAlreadySubmitted
		}

		ts := formatTime(stored.CreatedAt)
		if _, err := q.ExecContext(ctx,
			`UPDATE sessions SET submitted_at = ?, updated_at = ? WHERE id = ?`,
			ts, ts, p.SessionID,
		); err != nil {
			return fmt.Errorf("SaveResult: mark submitted: %w", err)
		}

		if _, err := q.ExecContext(ctx,
			`INSERT INTO results (id, session_id, access_token, overall_score, recommendation, result_json, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			stored.ID, p.SessionID, p.AccessToken,
			p.Result.OverallScore, string(p.Result.Recommendation),
			pqtype.NullRawMessage{RawMessage: resultJSON, Valid: true},
			ts,
		); err != nil {
			return fmt.Errorf("SaveResult: insert result: %w", err)
		}
		return nil
	})
	if err != nil {
		return StoredResult{}, err
	}
	return stored, nil
}

// GetResultByAccessToken loads a stored result. The JSON snapshot is decoded
// and validated before it is returned so a corrupted row is reported rather
// than served.
func (s *Store) GetResultByAccessToken(ctx context.Context, token string) (StoredResult, error) {
	var (
		out     StoredResult
		raw     pqtype.NullRawMessage
		created string
	)
	err := s.q().QueryRowContext(ctx,
		`SELECT id, session_id, access_token, result_json, created_at FROM results WHERE access_token = ?`,
		token,
	).Scan(&out.ID, &out.SessionID, &out.AccessToken, &raw, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredResult{}, ErrNotFound
	}
	if err != nil {
		return StoredResult{}, fmt.Errorf("GetResultByAccessToken: %w", err)
	}

	if !raw.Valid {
		return StoredResult{}, fmt.Errorf("GetResultByAccessToken: result %s has no snapshot", out.ID)
	}
	if err := json.Unmarshal(raw.RawMessage, &out.Result); err != nil {
		return StoredResult{}, fmt.Errorf("GetResultByAccessToken: decode snapshot: %w", err)
	}
	if err := out.Result.Validate(); err != nil {
		return StoredResult{}, fmt.Errorf("GetResultByAccessToken: %w", err)
	}
	if out.CreatedAt, err = parseTime(created); err != nil {
		return StoredResult{}, err
	}
	return out, nil
}
