package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/catalogue"
	"github.com/fordscott/portfolio-builder/internal/domain"
	"github.com/fordscott/portfolio-builder/internal/export"
	"github.com/fordscott/portfolio-builder/internal/indicator"
	"github.com/fordscott/portfolio-builder/internal/session"
	"github.com/fordscott/portfolio-builder/internal/shared"
	"github.com/fordscott/portfolio-builder/internal/validation"
)

type mockSharedRepo struct {
	saved   []domain.SharedPortfolio
	saveErr error
}

func (m *mockSharedRepo) Save(_ context.Context, p *domain.SharedPortfolio) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	p.CreatedAt = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	m.saved = append(m.saved, *p)
	return nil
}

func (m *mockSharedRepo) List(_ context.Context, limit int) ([]domain.SharedPortfolio, error) {
	if limit > len(m.saved) {
		limit = len(m.saved)
	}
	return m.saved[:limit], nil
}

func (m *mockSharedRepo) Get(_ context.Context, id string) (*domain.SharedPortfolio, error) {
	for _, p := range m.saved {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

type failingCatalogue struct{}

func (failingCatalogue) Catalogue(context.Context) (catalogue.Catalogue, error) {
	return catalogue.Catalogue{}, errors.New("boom")
}

func (failingCatalogue) Refresh(context.Context) (catalogue.Catalogue, error) {
	return catalogue.Catalogue{}, errors.New("boom")
}

func newTestRouter(t *testing.T, repo *mockSharedRepo, adminKey string) http.Handler {
	t.Helper()
	provider, err := catalogue.NewProvider(nil, time.Minute)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	h := NewHandler(
		provider,
		shared.NewService(repo, "test"),
		indicator.NewService(decimal.RequireFromString("0.015")),
		export.NewService(nil),
		validation.DefaultRules(),
	)
	return NewRouter(h, adminKey)
}

const portfolioBody = `{
	"accounts": [{
		"id": 1, "name": "Super", "type": "accumulation", "balance": 100000,
		"riskProfile": "balanced", "isESG": false,
		"holdings": {"CASH ACCOUNT": 50, "PIMCO GLOBAL BOND": 50}
	}],
	"clientDetails": {"clientName": "Jo Citizen"}
}`

func do(router http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListInvestments(t *testing.T) {
	w := do(newTestRouter(t, &mockSharedRepo{}, ""), http.MethodGet, "/api/v1/investments", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp investmentsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Investments) == 0 {
		t.Fatal("expected investments")
	}
	if resp.Source != catalogue.OriginDefaults {
		t.Errorf("source = %q, want defaults", resp.Source)
	}
	if resp.Investments[0].AssetClass != domain.AssetClassDiversified && resp.Investments[0].AssetClass != domain.AssetClassAustralianEquities {
		t.Errorf("first investment class = %q, expected display order", resp.Investments[0].AssetClass)
	}
}

func TestListModels(t *testing.T) {
	w := do(newTestRouter(t, &mockSharedRepo{}, ""), http.MethodGet, "/api/v1/models", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp modelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Keys) != 16 {
		t.Errorf("keys = %d, want 16", len(resp.Keys))
	}
}

func TestModelAllocations(t *testing.T) {
	router := newTestRouter(t, &mockSharedRepo{}, "")

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantKey   string
		wantFound bool
	}{
		{
			name:      "boundary balance goes to higher tier",
			body:      `{"accountType":"Accumulation","balance":500000,"isESG":false,"riskProfile":"Conservative"}`,
			wantCode:  http.StatusOK,
			wantKey:   "accumulation-500k-750k-standard",
			wantFound: true,
		},
		{
			name:     "unknown account type",
			body:     `{"accountType":"savings","balance":1,"riskProfile":"balanced"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown profile",
			body:     `{"accountType":"pension","balance":1,"riskProfile":"reckless"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/api/v1/models/allocations", tt.body, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp modelAllocationsResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.ModelKey != tt.wantKey {
				t.Errorf("key = %q, want %q", resp.ModelKey, tt.wantKey)
			}
			if resp.Found != tt.wantFound {
				t.Errorf("found = %v, want %v", resp.Found, tt.wantFound)
			}
			if !resp.Allocations.Total().Equal(decimal.NewFromInt(100)) {
				t.Errorf("allocations total = %s, want 100", resp.Allocations.Total())
			}
		})
	}
}

func TestTotals(t *testing.T) {
	w := do(newTestRouter(t, &mockSharedRepo{}, ""), http.MethodPost, "/api/v1/totals", portfolioBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp totalsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Evaluation.Accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(resp.Evaluation.Accounts))
	}
	fees := resp.Evaluation.Combined.AnnualFees
	if !fees.Equal(decimal.NewFromInt(245)) {
		t.Errorf("annual fees = %s, want 245", fees)
	}
	if len(resp.Indicators.Portfolio) == 0 {
		t.Error("expected portfolio indicators")
	}
	if !resp.Validation[1].Valid {
		t.Errorf("expected account 1 valid, got %+v", resp.Validation[1])
	}
}

func TestTotalsCatalogueFailure(t *testing.T) {
	h := NewHandler(failingCatalogue{}, nil, indicator.NewService(decimal.Zero), export.NewService(nil), validation.DefaultRules())
	w := do(NewRouter(h, ""), http.MethodPost, "/api/v1/totals", portfolioBody, nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestTotalsAccountLabels(t *testing.T) {
	router := newTestRouter(t, &mockSharedRepo{}, "")

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"capitalized labels", `{"accounts": [{"id": 1, "balance": 100000, "type": "Accumulation",
			"riskProfile": "High Growth", "holdings": {"CASH ACCOUNT": 100}}]}`, http.StatusOK},
		{"unknown type", `{"accounts": [{"id": 1, "balance": 100000, "type": "super",
			"riskProfile": "balanced"}]}`, http.StatusBadRequest},
		{"unknown risk profile", `{"accounts": [{"id": 1, "balance": 100000, "type": "pension",
			"riskProfile": "reckless"}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/api/v1/totals", tt.body, nil)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestCompare(t *testing.T) {
	router := newTestRouter(t, &mockSharedRepo{}, "")

	w := do(router, http.MethodPost, "/api/v1/compare", portfolioBody, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("without baseline: status = %d, want 400", w.Code)
	}

	body := `{
		"accounts": [{"id": 1, "balance": 100000, "type": "accumulation", "riskProfile": "balanced",
			"holdings": {"CASH ACCOUNT": 50, "PIMCO GLOBAL BOND": 50}}],
		"baseline": {"timestamp": "2026-04-01T00:00:00Z", "accounts": [{"id": 1, "balance": 100000,
			"type": "accumulation", "riskProfile": "balanced", "holdings": {"CASH ACCOUNT": 100}}]}
	}`
	w = do(router, http.MethodPost, "/api/v1/compare", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var cmp session.Comparison
	if err := json.Unmarshal(w.Body.Bytes(), &cmp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !cmp.Combined.Fees.Value.Equal(decimal.NewFromInt(245)) {
		t.Errorf("fee change = %s, want 245", cmp.Combined.Fees.Value)
	}
}

func TestExport(t *testing.T) {
	router := newTestRouter(t, &mockSharedRepo{}, "")

	tests := []struct {
		format      string
		wantCode    int
		contentType string
	}{
		{"csv", http.StatusOK, "text/csv; charset=utf-8"},
		{"json", http.StatusOK, "application/json"},
		{"xlsx", http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"pdf", http.StatusBadRequest, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w := do(router, http.MethodPost, "/api/v1/export/"+tt.format, portfolioBody, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if got := w.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("content type = %q, want %q", got, tt.contentType)
			}
			if tt.wantCode == http.StatusOK && !strings.Contains(w.Header().Get("Content-Disposition"), "."+tt.format) {
				t.Errorf("content disposition = %q", w.Header().Get("Content-Disposition"))
			}
		})
	}

	t.Run("publish without spreadsheet", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/export/csv?publish=true", portfolioBody, nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}

func TestSharedRoutes(t *testing.T) {
	repo := &mockSharedRepo{}
	router := newTestRouter(t, repo, "secret")
	auth := map[string]string{"Authorization": "Bearer secret"}

	shareBody := `{"name": "Smith review", "description": "draft", "portfolio": ` + portfolioBody + `}`

	w := do(router, http.MethodPost, "/api/v1/shared", shareBody, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated share: status = %d, want 401", w.Code)
	}

	w = do(router, http.MethodPost, "/api/v1/shared", `{"name": "  ", "portfolio": `+portfolioBody+`}`, auth)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank name: status = %d, want 400", w.Code)
	}

	w = do(router, http.MethodPost, "/api/v1/shared", shareBody, auth)
	if w.Code != http.StatusCreated {
		t.Fatalf("share: status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var created domain.SharedPortfolio
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.CreatedBy != "test" {
		t.Errorf("unexpected created record: %+v", created)
	}

	w = do(router, http.MethodGet, "/api/v1/shared", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var list []domain.SharedPortfolio
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list = %d entries, want 1", len(list))
	}

	w = do(router, http.MethodGet, "/api/v1/shared/"+created.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}
	var payload shared.Payload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Portfolio.Client.ClientName != "Jo Citizen" {
		t.Errorf("client = %q", payload.Portfolio.Client.ClientName)
	}
	if len(payload.Totals.Accounts) != 1 {
		t.Errorf("totals accounts = %d, want 1", len(payload.Totals.Accounts))
	}

	w = do(router, http.MethodGet, "/api/v1/shared/missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", w.Code)
	}
}

func TestRefreshCatalogue(t *testing.T) {
	router := newTestRouter(t, &mockSharedRepo{}, "secret")

	w := do(router, http.MethodPost, "/api/v1/catalogue/refresh", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = do(router, http.MethodPost, "/api/v1/catalogue/refresh", "", map[string]string{"Authorization": "Bearer secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
