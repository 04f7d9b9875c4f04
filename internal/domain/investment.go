package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Errors returned by Investment.Validate.
var (
	ErrInvestmentName  = errors.New("investment name is required")
	ErrInvestmentRange = errors.New("investment ratio out of range")
)

// AssetClass buckets holdings for breakdown reporting.
type AssetClass string

const (
	AssetClassDiversified        AssetClass = "DIVERSIFIED"
	AssetClassAustralianEquities AssetClass = "AUSTRALIAN EQUITIES"
	AssetClassGlobalEquities     AssetClass = "GLOBAL EQUITIES"
	AssetClassFixedIncome        AssetClass = "FIXED INCOME"
	AssetClassCash               AssetClass = "CASH"
	AssetClassTermDeposit        AssetClass = "TERM DEPOSIT"
	AssetClassProperty           AssetClass = "PROPERTY"
	AssetClassAlternatives       AssetClass = "ALTERNATIVES"
)

// AssetClasses lists the known asset classes in display order.
var AssetClasses = []AssetClass{
	AssetClassDiversified,
	AssetClassAustralianEquities,
	AssetClassGlobalEquities,
	AssetClassFixedIncome,
	AssetClassCash,
	AssetClassTermDeposit,
	AssetClassProperty,
	AssetClassAlternatives,
}

// ParseAssetClass matches s case-insensitively against the known asset classes.
func ParseAssetClass(s string) (AssetClass, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return lo.Find(AssetClasses, func(c AssetClass) bool { return string(c) == s })
}

// Investment is a managed investment or model portfolio an account can hold.
// MER, Growth and Defensive are fractions; Growth+Defensive is not required to equal 1.
type Investment struct {
	Name       string          `json:"name" toml:"name"`
	MER        decimal.Decimal `json:"mer" toml:"mer"`
	Growth     decimal.Decimal `json:"growth" toml:"growth"`
	Defensive  decimal.Decimal `json:"defensive" toml:"defensive"`
	AssetClass AssetClass      `json:"assetClass" toml:"asset_class"`
}

// InvestmentSet maps investment name to its record.
type InvestmentSet map[string]Investment

// Merge returns a new set holding s overlaid with overlay. Overlay entries win on name collision.
func (s InvestmentSet) Merge(overlay InvestmentSet) InvestmentSet {
	merged := make(InvestmentSet, len(s)+len(overlay))
	for name, inv := range s {
		merged[name] = inv
	}
	for name, inv := range overlay {
		merged[name] = inv
	}
	return merged
}

// Names returns the investment names sorted alphabetically.
func (s InvestmentSet) Names() []string {
	names := lo.Keys(s)
	sort.Strings(names)
	return names
}

// ByAssetClass groups the set's investments by asset class.
func (s InvestmentSet) ByAssetClass() map[AssetClass][]Investment {
	groups := lo.GroupBy(lo.Values(s), func(inv Investment) AssetClass { return inv.AssetClass })
	for _, invs := range groups {
		sort.Slice(invs, func(i, j int) bool { return invs[i].Name < invs[j].Name })
	}
	return groups
}

// NewInvestmentSet indexes investments by name. Later duplicates replace earlier ones.
func NewInvestmentSet(investments []Investment) InvestmentSet {
	return lo.SliceToMap(investments, func(inv Investment) (string, Investment) {
		return inv.Name, inv
	})
}

// MEROverrides maps investment name to a replacement MER fraction.
type MEROverrides map[string]decimal.Decimal

// Validate checks a user-entered investment: the name is required and every
// ratio must be a fraction between 0 and 1.
func (inv Investment) Validate() error {
	if strings.TrimSpace(inv.Name) == "" {
		return ErrInvestmentName
	}
	one := decimal.NewFromInt(1)
	fields := []struct {
		name  string
		value decimal.Decimal
	}{{"mer", inv.MER}, {"growth", inv.Growth}, {"defensive", inv.Defensive}}
	for _, f := range fields {
		if f.value.IsNegative() || f.value.GreaterThan(one) {
			return fmt.Errorf("%s %s must be between 0 and 1: %w", f.name, f.value, ErrInvestmentRange)
		}
	}
	return nil
}
