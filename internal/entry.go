// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/Lobco894/NotePad-new-master/internal/api"
	"github.com/Lobco894/NotePad-new-master/internal/mcpserver"
	"github.com/Lobco894/NotePad-new-master/internal/noteservice"
	"github.com/Lobco894/NotePad-new-master/internal/observer"
	"github.com/Lobco894/NotePad-new-master/internal/provider"
	"github.com/Lobco894/NotePad-new-master/internal/session"
	"github.com/Lobco894/NotePad-new-master/internal/sse"
	"github.com/Lobco894/NotePad-new-master/internal/storage"
)

var errConfigRequired = errors.New("config is required")

// Open opens the note store and documents directory described by cfg and
// returns the service over them. The caller closes the returned store.
func Open(cfg *Config, logger *slog.Logger) (*noteservice.Service, *provider.Store, error) {
	if dir := filepath.Dir(cfg.SQLite.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	store, err := provider.Open(cfg.SQLite.Path,
		provider.WithAuthority(cfg.Store.Authority),
		provider.WithDefaultColor(cfg.Categories.DefaultColor),
		provider.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open note store: %w", err)
	}

	// A nil Provider disables import and export.
	var docs storage.Provider
	if cfg.Documents.Path != "" {
		if err := os.MkdirAll(cfg.Documents.Path, 0o755); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("create documents dir: %w", err)
		}
		fs, err := storage.NewFS(cfg.Documents.Path)
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("init documents: %w", err)
		}
		docs = fs
	}
	return noteservice.NewService(store, docs), store, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("authority", cfg.Store.Authority),
		slog.String("documents_path", cfg.Documents.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, store, err := Open(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// SSE broker, fed by local mutations and by the observer.
	broker := sse.NewBroker(time.Second)
	defer broker.Close()
	store.Observe(broker.PublishChange)

	sessions := session.NewRegistry()
	sessions.Notify(func(c session.Change) {
		typ := sse.EventSessionClosed
		if c.Open {
			typ = sse.EventSessionOpened
		}
		broker.Publish(sse.Event{Type: typ, Data: c})
	})
	apiRouter := api.NewRouter(svc, sessions, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := store.Fingerprint(r.Context()); err != nil {
			logger.Error("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","sessions":%d,"event_clients":%d}`, sessions.Len(), broker.ClientCount())
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Report writes by other processes sharing the database file.
	g.Go(func() error {
		if err := observer.Watch(gCtx, store, logger, broker.PublishChange); err != nil {
			logger.Warn("observer disabled", slog.String("error", err.Error()))
		}
		return nil
	})

	// Close sessions abandoned by their clients.
	g.Go(func() error {
		sessions.RunExpiry(gCtx, cfg.Sessions.IdleTimeout, cfg.Sessions.SweepInterval)
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully", slog.Int("open_sessions", sessions.Len()))
	return nil
}

// errShutdown cancels the group context so the observer stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
// Logs go to stderr since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	svc, store, err := Open(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("MCP server starting", slog.String("sqlite_path", cfg.SQLite.Path))
	return mcpserver.New(svc).ServeStdio()
}
