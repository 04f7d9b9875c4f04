package allocation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// BalanceRange is the balance tier used to select a model.
type BalanceRange string

const (
	RangeUnder350k BalanceRange = "under350k"
	Range350to500k BalanceRange = "350k-500k"
	Range500to750k BalanceRange = "500k-750k"
	Range750kPlus  BalanceRange = "750k-plus"
)

var (
	threshold350k = decimal.NewFromInt(350000)
	threshold500k = decimal.NewFromInt(500000)
	threshold750k = decimal.NewFromInt(750000)
)

// BalanceRangeOf tiers a balance. A balance equal to a threshold falls in the higher tier.
func BalanceRangeOf(balance decimal.Decimal) BalanceRange {
	switch {
	case balance.LessThan(threshold350k):
		return RangeUnder350k
	case balance.LessThan(threshold500k):
		return Range350to500k
	case balance.LessThan(threshold750k):
		return Range500to750k
	default:
		return Range750kPlus
	}
}

// ModelKeyOf builds the model table key, e.g. "pension-500k-750k-esg".
func ModelKeyOf(accountType domain.AccountType, r BalanceRange, isESG bool) string {
	suffix := "-standard"
	if isESG {
		suffix = "-esg"
	}
	return strings.ToLower(string(accountType)) + "-" + string(r) + suffix
}

// ModelAllocationsFor returns a copy of the model variant for the account settings.
// A missing model key or risk profile yields an empty map.
func ModelAllocationsFor(accountType domain.AccountType, balance decimal.Decimal, isESG bool, riskProfile domain.RiskProfile, models domain.ModelTable) domain.Allocations {
	model, ok := models[ModelKeyOf(accountType, BalanceRangeOf(balance), isESG)]
	if !ok {
		return domain.Allocations{}
	}
	variant, ok := model[string(riskProfile)]
	if !ok {
		return domain.Allocations{}
	}
	return variant.Clone()
}
