package api

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/catalogue"
	"github.com/fordscott/portfolio-builder/internal/domain"
)

type investmentsResponse struct {
	Investments []domain.Investment `json:"investments"`
	Source      catalogue.Origin    `json:"source"`
	LoadedAt    time.Time           `json:"loadedAt"`
}

type modelsResponse struct {
	Keys     []string          `json:"keys"`
	Models   domain.ModelTable `json:"models"`
	Source   catalogue.Origin  `json:"source"`
	LoadedAt time.Time         `json:"loadedAt"`
}

// ListInvestments handles GET /api/v1/investments.
// Investments are ordered by asset class, then name.
func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCatalogue(w, r)
	if !ok {
		return
	}

	classOrder := make(map[domain.AssetClass]int, len(domain.AssetClasses))
	for i, a := range domain.AssetClasses {
		classOrder[a] = i
	}
	investments := lo.Values(c.Investments)
	sort.Slice(investments, func(i, j int) bool {
		ci, cj := classOrder[investments[i].AssetClass], classOrder[investments[j].AssetClass]
		if ci != cj {
			return ci < cj
		}
		return investments[i].Name < investments[j].Name
	})

	writeJSON(w, http.StatusOK, investmentsResponse{
		Investments: investments,
		Source:      c.InvestmentsSource,
		LoadedAt:    c.LoadedAt,
	})
}

// ListModels handles GET /api/v1/models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCatalogue(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, modelsResponse{
		Keys:     c.Models.Keys(),
		Models:   c.Models,
		Source:   c.ModelsSource,
		LoadedAt: c.LoadedAt,
	})
}

type modelAllocationsRequest struct {
	AccountType string          `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
	IsESG       bool            `json:"isESG"`
	RiskProfile string          `json:"riskProfile"`
}

type modelAllocationsResponse struct {
	ModelKey     string                  `json:"modelKey"`
	BalanceRange allocation.BalanceRange `json:"balanceRange"`
	RiskProfile  domain.RiskProfile      `json:"riskProfile"`
	Found        bool                    `json:"found"`
	Allocations  domain.Allocations      `json:"allocations"`
}

// ModelAllocations handles POST /api/v1/models/allocations.
// A missing model is reported with found=false and empty allocations.
func (h *Handler) ModelAllocations(w http.ResponseWriter, r *http.Request) {
	var req modelAllocationsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profile, err := domain.ParseRiskProfile(req.RiskProfile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, ok := h.loadCatalogue(w, r)
	if !ok {
		return
	}

	tier := allocation.BalanceRangeOf(req.Balance)
	allocs := allocation.ModelAllocationsFor(accountType, req.Balance, req.IsESG, profile, c.Models)
	writeJSON(w, http.StatusOK, modelAllocationsResponse{
		ModelKey:     allocation.ModelKeyOf(accountType, tier, req.IsESG),
		BalanceRange: tier,
		RiskProfile:  profile,
		Found:        len(allocs) > 0,
		Allocations:  allocs,
	})
}

// RefreshCatalogue handles POST /api/v1/catalogue/refresh.
func (h *Handler) RefreshCatalogue(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogue.Refresh(r.Context())
	if err != nil {
		slog.Error("failed to refresh catalogue", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to refresh catalogue")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"investments":       len(c.Investments),
		"models":            len(c.Models),
		"investmentsSource": c.InvestmentsSource,
		"modelsSource":      c.ModelsSource,
		"loadedAt":          c.LoadedAt,
	})
}
