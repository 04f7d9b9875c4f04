package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/domain"
	"github.com/fordscott/portfolio-builder/internal/session"
)

type mockRepo struct {
	saved   *domain.SharedPortfolio
	saveErr error
	byID    map[string]*domain.SharedPortfolio
	list    []domain.SharedPortfolio
	listErr error
}

func (m *mockRepo) Save(_ context.Context, p *domain.SharedPortfolio) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	p.CreatedAt = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	m.saved = p
	if m.byID == nil {
		m.byID = map[string]*domain.SharedPortfolio{}
	}
	m.byID[p.ID] = p
	return nil
}

func (m *mockRepo) List(_ context.Context, _ int) ([]domain.SharedPortfolio, error) {
	return m.list, m.listErr
}

func (m *mockRepo) Get(_ context.Context, id string) (*domain.SharedPortfolio, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func testDocument() session.Document {
	s := session.New()
	_ = s.UpdateHolding(1, "A", decimal.NewFromInt(100))
	s.Client.ClientName = "Jane Citizen"
	return s.Document()
}

func TestShareAndOpen(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, "ford-scott-team")
	totals := allocation.Evaluation{Combined: domain.CombinedTotals{TotalBalance: decimal.NewFromInt(500000)}}

	p, err := svc.Share(context.Background(), "  Smith review ", "annual", testDocument(), totals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID == "" {
		t.Error("expected generated id")
	}
	if p.Name != "Smith review" {
		t.Errorf("Name = %q, want trimmed name", p.Name)
	}
	if p.CreatedBy != "ford-scott-team" {
		t.Errorf("CreatedBy = %q", p.CreatedBy)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the repository")
	}

	payload, err := svc.Open(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if payload.Portfolio.Client.ClientName != "Jane Citizen" {
		t.Errorf("client = %+v", payload.Portfolio.Client)
	}
	if len(payload.Portfolio.Accounts) != 1 || !payload.Portfolio.Accounts[0].Holdings["A"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("accounts = %+v", payload.Portfolio.Accounts)
	}
	if !payload.Totals.Combined.TotalBalance.Equal(decimal.NewFromInt(500000)) {
		t.Errorf("TotalBalance = %s", payload.Totals.Combined.TotalBalance)
	}
}

func TestShareRequiresName(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, "team")

	_, err := svc.Share(context.Background(), "   ", "", testDocument(), allocation.Evaluation{})
	if !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
	if repo.saved != nil {
		t.Error("nothing should be saved without a name")
	}
}

func TestShareSaveError(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("db down")}
	svc := NewService(repo, "team")

	if _, err := svc.Share(context.Background(), "x", "", testDocument(), allocation.Evaluation{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenNotFound(t *testing.T) {
	svc := NewService(&mockRepo{}, "team")

	_, err := svc.Open(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(&domain.SharedPortfolio{ID: "x", Data: []byte(`{"portfolio":`)})
	if err == nil {
		t.Error("expected decode error")
	}
}

func TestListPassesThrough(t *testing.T) {
	repo := &mockRepo{list: []domain.SharedPortfolio{{ID: "b"}, {ID: "a"}}}
	svc := NewService(repo, "team")

	got, err := svc.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" {
		t.Errorf("List = %+v", got)
	}
}
