// Package api provides the HTTP handlers for the trends gateway.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trends-gateway/internal/bigquery"
	"trends-gateway/internal/domain"
	"trends-gateway/internal/middleware"
)

// TrendsAPI is the use-case surface the handlers need.
type TrendsAPI interface {
	InsertTerm(ctx context.Context, term *domain.RisingTerm) error
	ListTerms(ctx context.Context, from, to string) ([]bigquery.Record, error)
}

// Handler serves the rising-terms endpoints.
type Handler struct {
	trends TrendsAPI
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(trends TrendsAPI, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{trends: trends, logger: logger}
}

// Routes mounts the handler's endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/terms", h.InsertTerm)
	r.Get("/terms", h.ListTerms)
}

// InsertTerm handles POST /terms.
func (h *Handler) InsertTerm(w http.ResponseWriter, r *http.Request) {
	var term domain.RisingTerm
	if err := json.NewDecoder(r.Body).Decode(&term); err != nil {
		h.writeError(r, w, http.StatusBadRequest, domain.ErrValidation("invalid request body: %v", err))
		return
	}

	if err := h.trends.InsertTerm(r.Context(), &term); err != nil {
		h.writeError(r, w, httpStatusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTerms handles GET /terms with optional from/to query parameters.
func (h *Handler) ListTerms(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	records, err := h.trends.ListTerms(r.Context(), from, to)
	if err != nil {
		h.writeError(r, w, httpStatusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(r *http.Request, w http.ResponseWriter, status int, err error) {
	h.logger.Error("request failed",
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeJSON(w, status, map[string]interface{}{
		"code":    status,
		"message": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
