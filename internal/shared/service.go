// Package shared saves portfolios for the team and loads them back.
package shared

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/domain"
	"github.com/fordscott/portfolio-builder/internal/session"
)

// ErrNameRequired is returned when sharing a portfolio without a name.
var ErrNameRequired = errors.New("portfolio name is required")

// Payload is the stored body of a shared portfolio.
type Payload struct {
	Portfolio session.Document      `json:"portfolio"`
	Totals    allocation.Evaluation `json:"totals"`
	SharedAt  time.Time             `json:"sharedAt"`
}

// Service manages shared portfolios.
type Service struct {
	repo      Repository
	createdBy string
	now       func() time.Time
}

// NewService creates a new shared portfolio service. createdBy tags every saved record.
func NewService(repo Repository, createdBy string) *Service {
	return &Service{repo: repo, createdBy: createdBy, now: time.Now}
}

// Share stores the document with its totals under a new id.
func (s *Service) Share(ctx context.Context, name, description string, doc session.Document, totals allocation.Evaluation) (*domain.SharedPortfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	data, err := json.Marshal(Payload{Portfolio: doc, Totals: totals, SharedAt: s.now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("marshaling shared portfolio: %w", err)
	}

	p := &domain.SharedPortfolio{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Data:        data,
		CreatedBy:   s.createdBy,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("sharing portfolio %q: %w", name, err)
	}

	slog.Info("portfolio shared", "id", p.ID, "name", p.Name, "accounts", len(doc.Accounts))
	return p, nil
}

// List retrieves recent shared portfolios, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]domain.SharedPortfolio, error) {
	return s.repo.List(ctx, limit)
}

// Get retrieves one shared portfolio.
func (s *Service) Get(ctx context.Context, id string) (*domain.SharedPortfolio, error) {
	return s.repo.Get(ctx, id)
}

// Open retrieves a shared portfolio and decodes its payload.
func (s *Service) Open(ctx context.Context, id string) (Payload, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Payload{}, err
	}
	return Decode(p)
}

// Decode unmarshals a stored payload.
func Decode(p *domain.SharedPortfolio) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(p.Data, &payload); err != nil {
		return Payload{}, fmt.Errorf("decoding shared portfolio %s: %w", p.ID, err)
	}
	return payload, nil
}
