package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
	"github.com/nyashahama/smartcity-readiness-backend/internal/store"
)

// ─── CONTEXT KEYS ─────────────────────────────────────────────────────────────

type contextKey string

const ctxKeySession contextKey = "session"

// sessionFrom returns the session verified by requireAnonToken. Only valid
// inside session-scoped routes.
func sessionFrom(ctx context.Context) store.Session {
	sess, _ := ctx.Value(ctxKeySession).(store.Session)
	return sess
}

// ─── ANON TOKEN AUTH ──────────────────────────────────────────────────────────

// requireAnonToken is chi middleware that validates the X-Anon-Token header
// against the session named in the URL.
//
// The token is stored browser-side and sent on every request to
// session-scoped routes. Missing or unknown tokens get 401; a token that
// belongs to a different session gets 403.
//
// On success the verified session is stored in the request context for
// downstream handlers.
func (s *Server) requireAnonToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("X-Anon-Token"))
		if token == "" {
			respondErr(w, http.StatusUnauthorized, "missing X-Anon-Token header")
			return
		}

		urlSessionID, err := parseUUID(chi.URLParam(r, "sessionID"))
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid session_id")
			return
		}

		session, err := s.store.GetSessionByAnonToken(r.Context(), token)
		if errors.Is(err, store.ErrNotFound) {
			respondErr(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if err != nil {
			s.respondInternalErr(w, r, err)
			return
		}

		if session.ID != urlSessionID {
			respondErr(w, http.StatusForbidden, "token does not match session")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ─── LOGGER MIDDLEWARE ────────────────────────────────────────────────────────

// loggerMiddleware logs one line per request. The route pattern is logged
// instead of the raw path so session ids and access tokens stay out of logs.
// Server errors log at warn level.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			s.logger.Log(r.Context(), level, "http",
				"method", r.Method,
				"route", routeOf(r),
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				logField(r),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// ─── RESPONSE HELPERS ─────────────────────────────────────────────────────────

// respond writes a JSON body with the given status code.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondErr writes a standard JSON error envelope.
func respondErr(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}

// respondInternalErr logs an unexpected error and returns a 500 to the client
// without leaking internal details.
func (s *Server) respondInternalErr(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("internal error",
		"error", err,
		"route", routeOf(r),
		"request_id", middleware.GetReqID(r.Context()),
	)
	respondErr(w, http.StatusInternalServerError, "internal server error")
}

// respondDomainErr maps the sentinel errors of the lower layers to status
// codes. Anything unrecognised is a 500.
func (s *Server) respondDomainErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scoring.ErrInvalidAnswer):
		respondErr(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondErr(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrAlreadySubmitted):
		respondErr(w, http.StatusConflict, "session already submitted")
	default:
		// Includes catalog.ErrConfig: a broken catalog is an operator
		// problem, never the caller's.
		s.respondInternalErr(w, r, err)
	}
}

// ─── REQUEST PARSING HELPERS ─────────────────────────────────────────────────

const maxBodyBytes = 1 << 20

// decode reads exactly one JSON value from r.Body into dst. Unknown fields,
// trailing data and an empty body are 400s; a body over maxBodyBytes is a
// 413. Returns false once a response has been written.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, false)
}

// decodeOptional is decode for endpoints whose body may be absent. An empty
// body, chunked or not, leaves dst untouched.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeBody(w, r, dst, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON body")
	}
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondErr(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		respondErr(w, http.StatusBadRequest, "request body is required")
	default:
		respondErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return false
}

// routeOf returns the matched chi route pattern, or the raw path when no
// route matched.
func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

// logField tags a log line with the chi request id.
func logField(r *http.Request) slog.Attr {
	return slog.String("request_id", middleware.GetReqID(r.Context()))
}
