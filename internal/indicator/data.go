package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Data is the input to every calculator: one account's or the whole portfolio's totals.
// WeightedMER is a fraction, Growth and Defensive are percentages.
type Data struct {
	Balance         decimal.Decimal
	TotalAllocation decimal.Decimal
	WeightedMER     decimal.Decimal
	Fees            decimal.Decimal
	Growth          decimal.Decimal
	Defensive       decimal.Decimal
	// RiskProfile is empty for portfolio-level data.
	RiskProfile domain.RiskProfile
}

// AccountData builds calculator input for a single account.
func AccountData(a domain.Account, t domain.AccountTotals) Data {
	return Data{
		Balance:         a.Balance,
		TotalAllocation: t.TotalAllocation,
		WeightedMER:     t.WeightedMER,
		Fees:            t.TotalFees,
		Growth:          t.TotalGrowth,
		Defensive:       t.TotalDefensive,
		RiskProfile:     a.RiskProfile,
	}
}

// PortfolioData builds calculator input for combined totals.
// Allocation is reported as fully allocated since it has no portfolio-level meaning.
func PortfolioData(c domain.CombinedTotals) Data {
	return Data{
		Balance:         c.TotalBalance,
		TotalAllocation: domain.Hundred,
		WeightedMER:     c.WeightedMER,
		Fees:            c.AnnualFees,
		Growth:          c.GrowthPercent,
		Defensive:       c.DefensivePercent,
	}
}
