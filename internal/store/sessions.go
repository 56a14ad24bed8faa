package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one respondent's assessment run.
type Session struct {
	ID          uuid.UUID
	AnonToken   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time // nil until a result is saved
}

// Submitted reports whether a result has been saved for the session.
func (s Session) Submitted() bool { return s.SubmittedAt != nil }

const sessionColumns = `id, anon_token, created_at, updated_at, submitted_at`

// CreateSession inserts a fresh session identified by anonToken, together
// with any seed answers, in one transaction. If a seed answer cannot be
// written the session is not created either.
func (s *Store) CreateSession(ctx context.Context, anonToken string, seed []Answer) (Session, error) {
	ts := now()
	sess := Session{
		ID:        uuid.New(),
		AnonToken: anonToken,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	err := s.withTx(ctx, func(ctx context.Context, q querier) error {
		_, err := q.ExecContext(ctx,
			`INSERT INTO sessions (id, anon_token, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			sess.ID, sess.AnonToken, formatTime(ts), formatTime(ts),
		)
		if err != nil {
			return fmt.Errorf("CreateSession: %w", err)
		}
		if err := upsertAnswerRows(ctx, q, sess.ID, seed, formatTime(ts)); err != nil {
			return fmt.Errorf("CreateSession: seed: %w", err)
		}
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// GetSessionByID returns ErrNotFound for an unknown id.
func (s *Store) GetSessionByID(ctx context.Context, id uuid.UUID) (Session, error) {
	return getSession(ctx, s.q(), `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
}

// GetSessionByAnonToken returns ErrNotFound for an unknown token.
func (s *Store) GetSessionByAnonToken(ctx context.Context, token string) (Session, error) {
	return getSession(ctx, s.q(), `SELECT `+sessionColumns+` FROM sessions WHERE anon_token = ?`, token)
}

func getSession(ctx context.Context, q querier, query string, arg any) (Session, error) {
	var (
		sess             Session
		created, updated string
		submitted        sql.NullString
	)
	err := q.QueryRowContext(ctx, query, arg).Scan(&sess.ID, &sess.AnonToken, &created, &updated, &submitted)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}

	if sess.CreatedAt, err = parseTime(created); err != nil {
		return Session{}, err
	}
	if sess.UpdatedAt, err = parseTime(updated); err != nil {
		return Session{}, err
	}
	if sess.SubmittedAt, err = parseNullTime(submitted); err != nil {
		return Session{}, err
	}
	return sess, nil
}
