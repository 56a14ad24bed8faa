package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"

	"github.com/nyashahama/smartcity-readiness-backend/internal/api"
	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
	"github.com/nyashahama/smartcity-readiness-backend/internal/config"
	"github.com/nyashahama/smartcity-readiness-backend/internal/rpc"
	"github.com/nyashahama/smartcity-readiness-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port, "db_driver", cfg.DBDriver, "log_level", cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// newLogger writes JSON in production and text elsewhere, at cfg.LogLevel.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// ── Catalog ───────────────────────────────────────────────────────────────
	// Validated once here; a bad catalog stops startup instead of failing
	// every scoring call.
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	logger.Info("catalog loaded", "questions", cat.Len(), "source", catalogSource(cfg.CatalogPath))

	// ── Database ──────────────────────────────────────────────────────────────
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := store.Open(openCtx, store.Driver(cfg.DBDriver), cfg.DatabaseURL)
	cancelOpen()
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	st := store.New(pool, store.Driver(cfg.DBDriver))
	defer st.Close()
	logger.Info("database connected")

	// ── HTTP + gRPC on one port ───────────────────────────────────────────────
	handler := api.NewServer(st, cat, api.Config{
		BaseURL:        cfg.BaseURL,
		Env:            cfg.Env,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}, logger)

	httpSrv := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	grpcSrv := rpc.NewServer(cat, logger)

	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// gRPC clients send a content-type of application/grpc over HTTP/2;
	// everything else is plain HTTP.
	mux := cmux.New(lis)
	grpcLis := mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpLis := mux.Match(cmux.Any())

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 3)
	go func() {
		if err := grpcSrv.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) && !errors.Is(err, cmux.ErrListenerClosed) {
			serverErr <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, cmux.ErrListenerClosed) {
			serverErr <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		logger.Info("server listening", "addr", lis.Addr().String(), "protocols", "http,grpc")
		if err := mux.Serve(); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, cmux.ErrServerClosed) {
			serverErr <- fmt.Errorf("cmux: %w", err)
		}
	}()

	// Block until either a signal arrives or a server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight requests up to ShutdownTimeout to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	grpcDone := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(grpcDone)
	}()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	select {
	case <-grpcDone:
	case <-shutdownCtx.Done():
		grpcSrv.Stop()
	}
	mux.Close()

	logger.Info("shutdown complete")
	return nil
}

// loadCatalog returns the built-in catalog, or the JSON catalog at path when
// one is configured.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return catalog.Parse(raw)
}

func catalogSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
