package indicator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Service manages indicator calculation.
type Service struct {
	registry *Registry
}

// NewService creates a Service with all calculators registered. merCap is a fraction, e.g. 0.015.
func NewService(merCap decimal.Decimal) *Service {
	registry := NewRegistry()

	// Layer 0: raw totals
	registry.Register(&Layer0Calculator{})

	// Layer 1: risk split
	registry.Register(&Layer1Calculator{})

	// Layer 2: cost and target ratios
	registry.Register(&Layer2Calculator{MERCap: merCap.Mul(domain.Hundred)})

	return &Service{registry: registry}
}

// Calculate computes all indicators for one input.
func (s *Service) Calculate(data Data) ([]Indicator, error) {
	return s.registry.CalculateAll(data)
}

// Report holds indicators for every account and for the portfolio.
type Report struct {
	Accounts  map[int][]Indicator `json:"accounts"`
	Portfolio []Indicator         `json:"portfolio"`
}

// CalculateEvaluation computes indicators for each account of an evaluation and for the combined totals.
func (s *Service) CalculateEvaluation(accounts []domain.Account, ev allocation.Evaluation) (Report, error) {
	report := Report{Accounts: make(map[int][]Indicator, len(accounts))}
	for i, a := range accounts {
		if i >= len(ev.Accounts) {
			break
		}
		inds, err := s.Calculate(AccountData(a, ev.Accounts[i]))
		if err != nil {
			return Report{}, fmt.Errorf("account %d: %w", a.ID, err)
		}
		report.Accounts[a.ID] = inds
	}

	portfolio, err := s.Calculate(PortfolioData(ev.Combined))
	if err != nil {
		return Report{}, fmt.Errorf("portfolio: %w", err)
	}
	report.Portfolio = portfolio
	return report, nil
}
