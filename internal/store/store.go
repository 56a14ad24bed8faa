// Package store persists assessment sessions, their answer sets and the
// scored results. It runs on either Postgres (lib/pq) or SQLite
// (modernc.org/sqlite); queries are written once with `?` placeholders and
// rebound for the active driver.
//
// Multi-step writes (UpsertAnswers, SaveResult) execute atomically inside
// withTx. Single-query reads are plain methods.
//
// Dependency rule: store imports scoring (for AnswerSet and Result) only. It
// never imports api, rpc or catalog.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrNotFound is returned when a session or result lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// ErrAlreadySubmitted is returned when a session that already has a result
// is asked to accept more answers or a second result.
var ErrAlreadySubmitted = errors.New("store: session already submitted")

// ─── DRIVERS ─────────────────────────────────────────────────────────────────

// Driver names a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// ─── STORE ───────────────────────────────────────────────────────────────────

// Store holds the connection pool and the driver it was opened with.
type Store struct {
	db     *sql.DB
	driver Driver
}

// New wraps an already-open pool (see Open). The schema must exist.
func New(db *sql.DB, driver Driver) *Store {
	return &Store{db: db, driver: driver}
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// querier is satisfied by both *sql.DB and *sql.Tx so helpers can run inside
// or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txFunc receives a transaction-scoped querier. Returning a non-nil error
// causes withTx to roll back.
type txFunc func(ctx context.Context, q querier) error

// withTx begins a transaction, passes it to fn, and commits on success or
// rolls back on any error (including panics).
//
// Postgres runs at serializable isolation because both multi-step writes
// read the session before writing. SQLite transactions are serializable by
// construction and the driver takes no isolation option.
func (s *Store) withTx(ctx context.Context, fn txFunc) error {
	var opts *sql.TxOptions
	if s.driver == DriverPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}

	// Roll back on panic so the connection is never left in a broken state.
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, &reboundTx{tx: tx, driver: s.driver}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("store: fn error: %w; rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

// q returns the pool wrapped so that queries are rebound for the driver.
func (s *Store) q() querier {
	return &reboundDB{db: s.db, driver: s.driver}
}

// ─── PLACEHOLDER REBINDING ───────────────────────────────────────────────────

// rebind rewrites `?` placeholders to `$1, $2, …` for Postgres. Queries in
// this package never contain a literal question mark.
func rebind(driver Driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type reboundDB struct {
	db     *sql.DB
	driver Driver
}

func (r *reboundDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, rebind(r.driver, query), args...)
}

func (r *reboundDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, rebind(r.driver, query), args...)
}

func (r *reboundDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, rebind(r.driver, query), args...)
}

type reboundTx struct {
	tx     *sql.Tx
	driver Driver
}

func (r *reboundTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.tx.ExecContext(ctx, rebind(r.driver, query), args...)
}

func (r *reboundTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.tx.QueryContext(ctx, rebind(r.driver, query), args...)
}

func (r *reboundTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return r.tx.QueryRowContext(ctx, rebind(r.driver, query), args...)
}

// ─── TIME ENCODING ───────────────────────────────────────────────────────────

// Timestamps are stored as RFC 3339 text on both drivers so scanning never
// depends on driver-specific time handling.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// now is swapped in tests that need fixed timestamps.
var now = func() time.Time { return time.Now().UTC() }
