package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // driver: postgres
	_ "modernc.org/sqlite" // driver: sqlite
)

// DefaultSQLiteDSN is used when the sqlite driver is selected without a DSN.
const DefaultSQLiteDSN = "file:smartcity.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Open connects to the database, verifies it is reachable, and creates the
// schema if it does not exist.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("store: postgres requires a DSN")
		}
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	pool, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	if driver == DriverSQLite {
		// One writer at a time; a single connection also keeps an in-memory
		// database alive for the life of the pool.
		pool.SetMaxOpenConns(1)
	} else {
		pool.SetMaxOpenConns(25)
		pool.SetMaxIdleConns(10)
		pool.SetConnMaxLifetime(5 * time.Minute)
		pool.SetConnMaxIdleTime(2 * time.Minute)
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	if err := ensureSchema(ctx, pool, driver); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return pool, nil
}

func ensureSchema(ctx context.Context, pool *sql.DB, driver Driver) error {
	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	_, err := pool.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	anon_token    TEXT NOT NULL UNIQUE,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	submitted_at  TEXT
);

CREATE TABLE IF NOT EXISTS answers (
	session_id    TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	question_id   TEXT NOT NULL,
	value         TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	PRIMARY KEY (session_id, question_id)
);

CREATE TABLE IF NOT EXISTS results (
	id              TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL UNIQUE REFERENCES sessions(id) ON DELETE CASCADE,
	access_token    TEXT NOT NULL UNIQUE,
	overall_score   INTEGER NOT NULL,
	recommendation  TEXT NOT NULL,
	result_json     BLOB NOT NULL,
	created_at      TEXT NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS sessions (
	id            UUID PRIMARY KEY,
	anon_token    TEXT NOT NULL UNIQUE,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	submitted_at  TEXT
);

CREATE TABLE IF NOT EXISTS answers (
	session_id    UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	question_id   TEXT NOT NULL,
	value         TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	PRIMARY KEY (session_id, question_id)
);

CREATE TABLE IF NOT EXISTS results (
	id              UUID PRIMARY KEY,
	session_id      UUID NOT NULL UNIQUE REFERENCES sessions(id) ON DELETE CASCADE,
	access_token    TEXT NOT NULL UNIQUE,
	overall_score   SMALLINT NOT NULL CHECK (overall_score BETWEEN 0 AND 100),
	recommendation  TEXT NOT NULL,
	result_json     JSONB NOT NULL,
	created_at      TEXT NOT NULL
);
`
