package session

import (
	"fmt"
	"strings"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Document is the serialized form of a session, used for portfolio files,
// API requests and the payload of shared portfolios.
type Document struct {
	Accounts          []domain.Account     `json:"accounts"`
	CustomInvestments domain.InvestmentSet `json:"customInvestments,omitempty"`
	MEROverrides      domain.MEROverrides  `json:"merOverrides,omitempty"`
	Baseline          *domain.Baseline     `json:"baseline,omitempty"`
	Client            domain.ClientDetails `json:"clientDetails"`
}

// Document returns a deep copy of the session state.
func (s *Session) Document() Document {
	doc := Document{
		Accounts:          s.Accounts(),
		CustomInvestments: s.CustomInvestments(),
		MEROverrides:      s.MEROverrides(),
		Client:            s.Client,
	}
	if b, ok := s.Baseline(); ok {
		doc.Baseline = &b
	}
	return doc
}

// FromDocument rebuilds a session. Accounts without holdings get an empty map;
// an empty account list yields one default account. Duplicate account ids are rejected.
// Account types and risk profiles are parsed into their canonical keys, so labels such
// as "Accumulation" or "High Growth" load; a blank value takes the new-account default.
func FromDocument(doc Document) (*Session, error) {
	s := New()
	if len(doc.Accounts) > 0 {
		seen := make(map[int]bool, len(doc.Accounts))
		accounts := domain.CloneAccounts(doc.Accounts)
		for i := range accounts {
			if seen[accounts[i].ID] {
				return nil, fmt.Errorf("duplicate account id %d", accounts[i].ID)
			}
			seen[accounts[i].ID] = true
		}
		if err := normalizeAccounts(accounts); err != nil {
			return nil, err
		}
		s.accounts = accounts
	}
	for key, inv := range doc.CustomInvestments {
		if strings.TrimSpace(inv.Name) == "" {
			inv.Name = key
		}
		if err := s.AddCustomInvestment(inv); err != nil {
			return nil, err
		}
	}
	for name, mer := range doc.MEROverrides {
		s.SetMEROverride(name, mer)
	}
	if doc.Baseline != nil {
		accounts := domain.CloneAccounts(doc.Baseline.Accounts)
		if err := normalizeAccounts(accounts); err != nil {
			return nil, fmt.Errorf("baseline: %w", err)
		}
		s.baseline = &domain.Baseline{
			Accounts:  accounts,
			Timestamp: doc.Baseline.Timestamp,
		}
	}
	s.Client = doc.Client
	return s, nil
}

func normalizeAccounts(accounts []domain.Account) error {
	for i := range accounts {
		a := &accounts[i]
		def := domain.NewAccount(a.ID)
		if a.Type == "" {
			a.Type = def.Type
		} else {
			t, err := domain.ParseAccountType(string(a.Type))
			if err != nil {
				return fmt.Errorf("account %d: %w", a.ID, err)
			}
			a.Type = t
		}
		if a.RiskProfile == "" {
			a.RiskProfile = def.RiskProfile
		} else {
			p, err := domain.ParseRiskProfile(string(a.RiskProfile))
			if err != nil {
				return fmt.Errorf("account %d: %w", a.ID, err)
			}
			a.RiskProfile = p
		}
		if a.Holdings == nil {
			a.Holdings = domain.Allocations{}
		}
	}
	return nil
}
