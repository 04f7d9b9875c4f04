package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// AccountType classifies client accounts.
type AccountType string

const (
	AccountTypeAccumulation AccountType = "accumulation"
	AccountTypePension      AccountType = "pension"
)

// ParseAccountType accepts either account type in any case.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(s))); t {
	case AccountTypeAccumulation, AccountTypePension:
		return t, nil
	default:
		return "", fmt.Errorf("unknown account type %q", s)
	}
}

// RiskProfile is the canonical key of a model variant.
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskBalanced     RiskProfile = "balanced"
	RiskGrowth       RiskProfile = "growth"
	RiskHighGrowth   RiskProfile = "highGrowth"
)

// RiskRange is the target growth-asset band of a risk profile, in percent.
type RiskRange struct {
	Min   decimal.Decimal
	Max   decimal.Decimal
	Label string
}

// RiskProfiles lists the profiles in ascending risk order.
var RiskProfiles = []RiskProfile{RiskConservative, RiskBalanced, RiskGrowth, RiskHighGrowth}

var riskRanges = map[RiskProfile]RiskRange{
	RiskConservative: {Min: decimal.NewFromInt(30), Max: decimal.NewFromInt(50), Label: "Conservative"},
	RiskBalanced:     {Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(70), Label: "Balanced"},
	RiskGrowth:       {Min: decimal.NewFromInt(70), Max: decimal.NewFromInt(85), Label: "Growth"},
	RiskHighGrowth:   {Min: decimal.NewFromInt(85), Max: decimal.NewFromInt(100), Label: "High Growth"},
}

// Range returns the growth band for the profile.
func (p RiskProfile) Range() (RiskRange, bool) {
	r, ok := riskRanges[p]
	return r, ok
}

// Label returns the display name, or the raw key for unknown profiles.
func (p RiskProfile) Label() string {
	if r, ok := riskRanges[p]; ok {
		return r.Label
	}
	return string(p)
}

// ParseRiskProfile accepts a profile key or label ("High Growth", "highgrowth", "highGrowth").
func ParseRiskProfile(s string) (RiskProfile, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	p, ok := lo.Find(RiskProfiles, func(p RiskProfile) bool {
		return strings.ToLower(string(p)) == norm
	})
	if !ok {
		return "", fmt.Errorf("unknown risk profile %q", s)
	}
	return p, nil
}

// DefaultBalance is the opening balance of a new account.
var DefaultBalance = decimal.NewFromInt(500000)

// Account is one client investment account in the portfolio being built.
type Account struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	RiskProfile RiskProfile     `json:"riskProfile"`
	IsESG       bool            `json:"isESG"`
	Holdings    Allocations     `json:"holdings"`
}

// NewAccount returns an account with default settings and no holdings.
func NewAccount(id int) Account {
	return Account{
		ID:          id,
		Name:        fmt.Sprintf("Account %d", id),
		Type:        AccountTypeAccumulation,
		Balance:     DefaultBalance,
		RiskProfile: RiskBalanced,
		Holdings:    Allocations{},
	}
}

// Clone returns a deep copy of the account.
func (a Account) Clone() Account {
	a.Holdings = a.Holdings.Clone()
	return a
}

// CloneAccounts deep-copies a slice of accounts.
func CloneAccounts(accounts []Account) []Account {
	return lo.Map(accounts, func(a Account, _ int) Account { return a.Clone() })
}
