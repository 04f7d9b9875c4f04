// Package session owns the mutable state of one portfolio-building session:
// the account list, advisor-entered investments and MER overrides, the saved
// baseline and client details. Engine calls receive this state explicitly.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/compare"
	"github.com/fordscott/portfolio-builder/internal/domain"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrLastAccount     = errors.New("cannot remove the last account")
	ErrNoBaseline      = errors.New("no baseline saved")
)

// Session is not safe for concurrent use.
type Session struct {
	accounts  []domain.Account
	custom    domain.InvestmentSet
	overrides domain.MEROverrides
	baseline  *domain.Baseline
	Client    domain.ClientDetails
}

// New returns a session with a single default account.
func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Reset discards all state and starts over with one default account.
func (s *Session) Reset() {
	s.accounts = []domain.Account{domain.NewAccount(1)}
	s.custom = domain.InvestmentSet{}
	s.overrides = domain.MEROverrides{}
	s.baseline = nil
	s.Client = domain.ClientDetails{}
}

// Accounts returns a deep copy of the account list.
func (s *Session) Accounts() []domain.Account {
	return domain.CloneAccounts(s.accounts)
}

// Account returns a copy of the account with the given id.
func (s *Session) Account(id int) (domain.Account, error) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.Account{}, fmt.Errorf("account %d: %w", id, ErrAccountNotFound)
	}
	return s.accounts[i].Clone(), nil
}

func (s *Session) indexOf(id int) int {
	_, i, ok := lo.FindIndexOf(s.accounts, func(a domain.Account) bool { return a.ID == id })
	if !ok {
		return -1
	}
	return i
}

// AddAccount appends a default account whose id is one more than the current maximum.
func (s *Session) AddAccount() domain.Account {
	maxID := lo.Reduce(s.accounts, func(m int, a domain.Account, _ int) int { return max(m, a.ID) }, 0)
	a := domain.NewAccount(maxID + 1)
	s.accounts = append(s.accounts, a)
	return a.Clone()
}

// UpdateAccount applies fn to a copy of the account and stores the result.
// The account id cannot be changed.
func (s *Session) UpdateAccount(id int, fn func(*domain.Account)) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("account %d: %w", id, ErrAccountNotFound)
	}
	a := s.accounts[i].Clone()
	fn(&a)
	a.ID = id
	if a.Holdings == nil {
		a.Holdings = domain.Allocations{}
	}
	s.accounts[i] = a
	return nil
}

// RemoveAccount deletes an account. The last remaining account cannot be removed.
func (s *Session) RemoveAccount(id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("account %d: %w", id, ErrAccountNotFound)
	}
	if len(s.accounts) <= 1 {
		return ErrLastAccount
	}
	s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
	return nil
}

// UpdateHolding sets one holding percentage. A non-positive percentage removes the holding.
func (s *Session) UpdateHolding(id int, name string, pct decimal.Decimal) error {
	return s.UpdateAccount(id, func(a *domain.Account) {
		if !pct.IsPositive() {
			delete(a.Holdings, name)
			return
		}
		a.Holdings[name] = pct
	})
}

// LoadModel replaces the account's holdings with the model matching its settings.
// It reports false and leaves the holdings untouched when no model matches.
func (s *Session) LoadModel(id int, models domain.ModelTable) (bool, error) {
	a, err := s.Account(id)
	if err != nil {
		return false, err
	}
	allocs := allocation.ModelAllocationsFor(a.Type, a.Balance, a.IsESG, a.RiskProfile, models)
	if len(allocs) == 0 {
		return false, nil
	}
	return true, s.UpdateAccount(id, func(a *domain.Account) { a.Holdings = allocs })
}

// CustomInvestments returns a copy of the advisor-entered investments.
func (s *Session) CustomInvestments() domain.InvestmentSet {
	return domain.InvestmentSet{}.Merge(s.custom)
}

// AddCustomInvestment validates inv and adds it to the overlay, replacing any entry of the same name.
func (s *Session) AddCustomInvestment(inv domain.Investment) error {
	inv.Name = strings.TrimSpace(inv.Name)
	if err := inv.Validate(); err != nil {
		return fmt.Errorf("adding custom investment: %w", err)
	}
	if inv.AssetClass == "" {
		inv.AssetClass = domain.AssetClassDiversified
	}
	s.custom[inv.Name] = inv
	return nil
}

// RemoveCustomInvestment drops an investment from the overlay.
func (s *Session) RemoveCustomInvestment(name string) {
	delete(s.custom, name)
}

// MEROverrides returns a copy of the MER overrides.
func (s *Session) MEROverrides() domain.MEROverrides {
	out := make(domain.MEROverrides, len(s.overrides))
	for k, v := range s.overrides {
		out[k] = v
	}
	return out
}

func (s *Session) SetMEROverride(name string, mer decimal.Decimal) {
	s.overrides[name] = mer
}

func (s *Session) ClearMEROverride(name string) {
	delete(s.overrides, name)
}

// SaveBaseline snapshots the current accounts, replacing any earlier baseline.
func (s *Session) SaveBaseline(now time.Time) {
	s.baseline = &domain.Baseline{
		Accounts:  domain.CloneAccounts(s.accounts),
		Timestamp: now,
	}
}

// RestoreBaseline overwrites the current accounts with the baseline copy.
func (s *Session) RestoreBaseline() error {
	if s.baseline == nil {
		return ErrNoBaseline
	}
	s.accounts = domain.CloneAccounts(s.baseline.Accounts)
	return nil
}

func (s *Session) ClearBaseline() {
	s.baseline = nil
}

func (s *Session) HasBaseline() bool {
	return s.baseline != nil
}

// Baseline returns a copy of the saved baseline.
func (s *Session) Baseline() (domain.Baseline, bool) {
	if s.baseline == nil {
		return domain.Baseline{}, false
	}
	return domain.Baseline{
		Accounts:  domain.CloneAccounts(s.baseline.Accounts),
		Timestamp: s.baseline.Timestamp,
	}, true
}

// Evaluate aggregates the current accounts against catalogue overlaid with the custom investments.
func (s *Session) Evaluate(catalogue domain.InvestmentSet) allocation.Evaluation {
	return allocation.Evaluate(s.accounts, catalogue, s.custom, s.overrides)
}

// Comparison is the current evaluation set against the baseline.
type Comparison struct {
	Current  allocation.Evaluation `json:"current"`
	Baseline allocation.Evaluation `json:"baseline"`
	// Accounts holds a summary per account id present in both the current list and the baseline.
	Accounts map[int]compare.Summary `json:"accounts"`
	Combined compare.Summary         `json:"combined"`
	SavedAt  time.Time               `json:"savedAt"`
}

// Compare evaluates the current accounts and the baseline with the same catalogue,
// custom investments and overrides.
func (s *Session) Compare(catalogue domain.InvestmentSet) (Comparison, error) {
	if s.baseline == nil {
		return Comparison{}, ErrNoBaseline
	}
	return Diff(s.accounts, s.baseline.Accounts, catalogue, s.custom, s.overrides, s.baseline.Timestamp), nil
}

// Diff compares two account lists, matching accounts by id.
func Diff(current, baseline []domain.Account, catalogue, overlay domain.InvestmentSet, overrides domain.MEROverrides, savedAt time.Time) Comparison {
	cur := allocation.Evaluate(current, catalogue, overlay, overrides)
	base := allocation.Evaluate(baseline, catalogue, overlay, overrides)

	baseByID := make(map[int]domain.AccountTotals, len(baseline))
	for i, a := range baseline {
		baseByID[a.ID] = base.Accounts[i]
	}

	accounts := make(map[int]compare.Summary, len(current))
	for i, a := range current {
		if bt, ok := baseByID[a.ID]; ok {
			accounts[a.ID] = compare.Summarize(cur.Accounts[i], bt)
		}
	}

	return Comparison{
		Current:  cur,
		Baseline: base,
		Accounts: accounts,
		Combined: compare.SummarizeCombined(cur.Combined, base.Combined),
		SavedAt:  savedAt,
	}
}
