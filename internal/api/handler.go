package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/fordscott/portfolio-builder/internal/catalogue"
	"github.com/fordscott/portfolio-builder/internal/export"
	"github.com/fordscott/portfolio-builder/internal/indicator"
	"github.com/fordscott/portfolio-builder/internal/shared"
	"github.com/fordscott/portfolio-builder/internal/validation"
)

const maxBodyBytes = 1 << 20

// CatalogueProvider serves the investment catalogue and model table.
type CatalogueProvider interface {
	Catalogue(ctx context.Context) (catalogue.Catalogue, error)
	Refresh(ctx context.Context) (catalogue.Catalogue, error)
}

// Handler provides HTTP endpoints for the portfolio builder API.
type Handler struct {
	catalogue  CatalogueProvider
	shared     *shared.Service
	indicators *indicator.Service
	exports    *export.Service
	rules      validation.Rules
}

// NewHandler creates a new API handler. shared may be nil when no store is configured.
func NewHandler(cat CatalogueProvider, sharedSvc *shared.Service, indicators *indicator.Service, exports *export.Service, rules validation.Rules) *Handler {
	return &Handler{
		catalogue:  cat,
		shared:     sharedSvc,
		indicators: indicators,
		exports:    exports,
		rules:      rules,
	}
}

// loadCatalogue writes a 500 and returns false when the catalogue is unavailable.
func (h *Handler) loadCatalogue(w http.ResponseWriter, r *http.Request) (catalogue.Catalogue, bool) {
	c, err := h.catalogue.Catalogue(r.Context())
	if err != nil {
		slog.Error("failed to load catalogue", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return catalogue.Catalogue{}, false
	}
	return c, true
}

// decodeBody reads a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
