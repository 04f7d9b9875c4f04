package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/export"
	"github.com/fordscott/portfolio-builder/internal/indicator"
	"github.com/fordscott/portfolio-builder/internal/session"
	"github.com/fordscott/portfolio-builder/internal/validation"
)

type totalsResponse struct {
	Evaluation allocation.Evaluation     `json:"evaluation"`
	Indicators indicator.Report          `json:"indicators"`
	Validation map[int]validation.Report `json:"validation"`
}

// decodeSession reads a portfolio document and rebuilds the session from it.
func decodeSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	var doc session.Document
	if !decodeBody(w, r, &doc) {
		return nil, false
	}
	s, err := session.FromDocument(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return s, true
}

// Totals handles POST /api/v1/totals: per-account and combined totals,
// indicators and validation findings for a portfolio document.
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	s, ok := decodeSession(w, r)
	if !ok {
		return
	}
	c, ok := h.loadCatalogue(w, r)
	if !ok {
		return
	}

	accounts := s.Accounts()
	ev := s.Evaluate(c.Investments)

	inds, err := h.indicators.CalculateEvaluation(accounts, ev)
	if err != nil {
		slog.Error("failed to calculate indicators", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	checks := make(map[int]validation.Report, len(accounts))
	for i, a := range accounts {
		checks[a.ID] = validation.Check(validation.AccountInput(a, ev.Accounts[i]), h.rules)
	}

	writeJSON(w, http.StatusOK, totalsResponse{Evaluation: ev, Indicators: inds, Validation: checks})
}

// Compare handles POST /api/v1/compare. The document must carry a baseline.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	s, ok := decodeSession(w, r)
	if !ok {
		return
	}
	c, ok := h.loadCatalogue(w, r)
	if !ok {
		return
	}

	cmp, err := s.Compare(c.Investments)
	if err != nil {
		if errors.Is(err, session.ErrNoBaseline) {
			writeError(w, http.StatusBadRequest, "portfolio has no baseline")
			return
		}
		slog.Error("failed to compare portfolio", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// Export handles POST /api/v1/export/{format}. With ?publish=true the export is
// also written to the configured spreadsheet.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported export format, expected csv, json or xlsx")
		return
	}

	s, ok := decodeSession(w, r)
	if !ok {
		return
	}
	c, ok := h.loadCatalogue(w, r)
	if !ok {
		return
	}

	doc, _ := h.exports.Build(s.Document(), c.Investments)

	if r.URL.Query().Get("publish") == "true" {
		if !h.exports.Enabled() {
			writeError(w, http.StatusServiceUnavailable, "spreadsheet publishing is not configured")
			return
		}
		if err := h.exports.Publish(r.Context(), doc); err != nil {
			slog.Error("failed to publish export", "error", err)
			writeError(w, http.StatusBadGateway, "failed to publish export")
			return
		}
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, f, doc); err != nil {
		slog.Error("failed to encode export", "format", f, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="portfolio-%s.%s"`, doc.GeneratedAt.Format("2006-01-02"), f))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write export body", "error", err)
	}
}
