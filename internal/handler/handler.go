package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sant0-9/pulse/internal/analyzer"
	"github.com/sant0-9/pulse/internal/app"
	"github.com/sant0-9/pulse/internal/generator"
	"github.com/sant0-9/pulse/internal/middleware"
)

// maxUploadBytes bounds CSV uploads and JSON bodies
const maxUploadBytes = 10 << 20

// Handler serves the generate, analyze and prompt endpoints
type Handler struct {
	app *app.App
}

func New(a *app.App) *Handler {
	return &Handler{app: a}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": h.app.Provider.Name(),
		"model":    h.app.Config.Model,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps generation and analysis error kinds to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case analyzer.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, analyzer.ErrTimeout), errors.Is(err, generator.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, analyzer.ErrServiceUnavailable), errors.Is(err, generator.ErrServiceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "status", status, "error", err, "request_id", middleware.RequestID(r.Context()))
	}
	writeError(w, status, err.Error())
}
