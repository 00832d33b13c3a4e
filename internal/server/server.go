package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sant0-9/pulse/internal/app"
	"github.com/sant0-9/pulse/internal/handler"
	"github.com/sant0-9/pulse/internal/middleware"
)

const shutdownTimeout = 30 * time.Second

// Server wraps the HTTP API
type Server struct {
	addr    string
	handler http.Handler
}

func New(a *app.App) *Server {
	return &Server{
		addr:    a.Config.Server.Addr,
		handler: NewRouter(a),
	}
}

// NewRouter creates the API router with all endpoints
func NewRouter(a *app.App) http.Handler {
	r := mux.NewRouter()
	h := handler.New(a)

	r.Use(middleware.RequestIDs)
	r.Use(middleware.AccessLog)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewAuthMiddleware(a.Config.Server.AuthToken).Authenticate)

	api.HandleFunc("/prompts", h.Prompts).Methods(http.MethodGet)

	// endpoints that call the model share one limiter
	limited := api.NewRoute().Subrouter()
	limited.Use(middleware.NewRateLimiter(a.Config.Server.RateLimit, a.Config.Server.Burst).Limit)

	limited.HandleFunc("/generate", h.Generate).Methods(http.MethodPost)
	limited.HandleFunc("/analyze", h.Analyze).Methods(http.MethodPost)

	return r
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
