package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
)

// Answer is one recorded (question id, raw value) pair.
type Answer struct {
	QuestionID string
	Value      string
}

// UpsertAnswers records a batch of answers for a session. Re-answering a
// question overwrites the earlier value (last write wins). The batch is
// all-or-nothing: if any row fails, none are kept.
//
// Returns ErrNotFound for an unknown session and ErrAlreadySubmitted once a
// result exists. A scored answer set is frozen.
//
// Callers validate values against the catalog before calling; the store does
// not know question domains.
func (s *Store) UpsertAnswers(ctx context.Context, sessionID uuid.UUID, answers []Answer) (int, error) {
	upserted := 0

	err := s.withTx(ctx, func(ctx context.Context, q querier) error {
		sess, err := getSession(ctx, q, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, sessionID)
		if err != nil {
			return err
		}
		if sess.Submitted() {
			return ErrAlreadySubmitted
		}

		ts := formatTime(now())
		if err := upsertAnswerRows(ctx, q, sessionID, answers, ts); err != nil {
			return fmt.Errorf("UpsertAnswers: %w", err)
		}
		upserted = len(answers)

		if _, err := q.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, ts, sessionID); err != nil {
			return fmt.Errorf("UpsertAnswers: touch session: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return upserted, nil
}

func upsertAnswerRows(ctx context.Context, q querier, sessionID uuid.UUID, answers []Answer, ts string) error {
	for _, a := range answers {
		_, err := q.ExecContext(ctx,
			`INSERT INTO answers (session_id, question_id, value, updated_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (session_id, question_id)
			 DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			sessionID, a.QuestionID, a.Value, ts,
		)
		if err != nil {
			return fmt.Errorf("upsert %q: %w", a.QuestionID, err)
		}
	}
	return nil
}

// GetAnswers loads the session's answer set. An unanswered session yields an
// empty, non-nil set.
func (s *Store) GetAnswers(ctx context.Context, sessionID uuid.UUID) (scoring.AnswerSet, error) {
	rows, err := s.q().QueryContext(ctx,
		`SELECT question_id, value FROM answers WHERE session_id = ? ORDER BY question_id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAnswers: %w", err)
	}
	defer rows.Close()

	answers := scoring.AnswerSet{}
	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return nil, fmt.Errorf("GetAnswers: scan: %w", err)
		}
		answers.Set(id, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetAnswers: %w", err)
	}
	return answers, nil
}
