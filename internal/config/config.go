// Package config loads and validates all environment variables at startup.
// Every other package receives typed values. Nothing else reads os.Getenv.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database drivers accepted in DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port    string // default "8080"
	Env     string // "development" | "staging" | "production"
	BaseURL string // e.g. "https://readiness.example.org"

	// AllowedOrigins comes from CORS_ALLOWED_ORIGINS (comma separated).
	// Empty allows any origin, which production refuses.
	AllowedOrigins []string

	RequestTimeout  time.Duration // default 30s
	ShutdownTimeout time.Duration // default 20s

	// LogLevel comes from LOG_LEVEL; debug in development, info elsewhere.
	LogLevel slog.Level

	// ── Database ──────────────────────────────────────────────────────────────
	DBDriver    string // "sqlite" (default) | "postgres"
	DatabaseURL string // DSN; optional for sqlite

	// ── Assessment ────────────────────────────────────────────────────────────
	// CatalogPath points at a JSON catalog that replaces the built-in one.
	CatalogPath string
}

// Load reads all environment variables and returns a validated Config.
// A .env file in the working directory is applied first, for keys the real
// environment leaves unset. Malformed values and failed checks are reported
// together.
func Load() (*Config, error) {
	loadDotEnv(".env")

	var env envReader
	c := &Config{
		Port:            env.str("PORT", "8080"),
		Env:             env.str("ENV", "development"),
		BaseURL:         strings.TrimRight(env.str("BASE_URL", "http://localhost:8080"), "/"),
		AllowedOrigins:  env.list("CORS_ALLOWED_ORIGINS"),
		RequestTimeout:  env.duration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 20*time.Second),
		DBDriver:        strings.ToLower(env.str("DB_DRIVER", DriverSQLite)),
		DatabaseURL:     env.str("DATABASE_URL", ""),
		CatalogPath:     env.str("CATALOG_PATH", ""),
	}
	// Development logs at debug unless told otherwise.
	defaultLevel := slog.LevelInfo
	if c.Env == "development" {
		defaultLevel = slog.LevelDebug
	}
	c.LogLevel = env.level("LOG_LEVEL", defaultLevel)

	return c, errors.Join(errors.Join(env.errs...), c.validate())
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) validate() error {
	var errs []error

	switch c.Env {
	case "development", "staging", "production":
	default:
		errs = append(errs, fmt.Errorf("ENV must be development, staging or production, got %q", c.Env))
	}

	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port number, got %q", c.Port))
	}

	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("missing required env var: DATABASE_URL (DB_DRIVER=postgres)"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}

	if c.IsProduction() && len(c.AllowedOrigins) == 0 {
		errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS must be set in production"))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// ─── DOT-ENV LOADER ──────────────────────────────────────────────────────────

// loadDotEnv applies KEY=value lines from path to the environment, skipping
// keys that already have a non-empty value. An optional "export " prefix and one layer
// of matching quotes are stripped. Lines that are not assignments are
// ignored, as is a missing file.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		if os.Getenv(key) != "" {
			continue
		}
		_ = os.Setenv(key, unquote(strings.TrimSpace(value)))
	}
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// ─── ENV READER ──────────────────────────────────────────────────────────────

// envReader reads typed variables and remembers every value it could not
// parse, so Load can report them alongside the validation errors.
type envReader struct {
	errs []error
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// list splits a comma-separated variable, dropping blanks.
func (e *envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// duration accepts Go duration syntax ("30s", "5m") or a plain integer
// number of seconds.
func (e *envReader) duration(key string, def time.Duration) time.Duration {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a duration", key, raw))
		return def
	}
	return d
}

// level accepts the slog level names (debug, info, warn, error), optionally
// with an offset such as "info+2".
func (e *envReader) level(key string, def slog.Level) slog.Level {
	raw := e.str(key, "")
	if raw == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %q is not a log level", key, raw))
		return def
	}
	return l
}
