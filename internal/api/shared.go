package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fordscott/portfolio-builder/internal/session"
	"github.com/fordscott/portfolio-builder/internal/shared"
)

type shareRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Portfolio   session.Document `json:"portfolio"`
}

// ListShared handles GET /api/v1/shared.
func (h *Handler) ListShared(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 500
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	list, err := h.shared.List(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list shared portfolios", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetShared handles GET /api/v1/shared/{id} and returns the decoded payload.
func (h *Handler) GetShared(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	payload, err := h.shared.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "shared portfolio not found")
			return
		}
		slog.Error("failed to open shared portfolio", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// SharePortfolio handles POST /api/v1/shared.
func (h *Handler) SharePortfolio(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s, err := session.FromDocument(req.Portfolio)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, ok := h.loadCatalogue(w, r)
	if !ok {
		return
	}

	p, err := h.shared.Share(r.Context(), req.Name, req.Description, s.Document(), s.Evaluate(c.Investments))
	if err != nil {
		if errors.Is(err, shared.ErrNameRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to share portfolio", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to share portfolio")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
