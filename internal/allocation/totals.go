package allocation

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Aggregate computes blended metrics for one account's holdings.
// Holdings with a non-positive percentage or an unknown name are skipped.
// The overlay replaces catalogue entries of the same name, and an override replaces
// the MER of that holding only.
func Aggregate(holdings domain.Allocations, balance decimal.Decimal, catalogue, overlay domain.InvestmentSet, overrides domain.MEROverrides) domain.AccountTotals {
	all := catalogue.Merge(overlay)

	totals := domain.AccountTotals{
		AssetClassBreakdown: make(map[domain.AssetClass]decimal.Decimal),
	}
	growth := decimal.Zero
	defensive := decimal.Zero

	for _, name := range holdings.Names() {
		pct := holdings[name]
		inv, ok := all[name]
		if !ok || !pct.IsPositive() {
			continue
		}

		mer := inv.MER
		if override, ok := overrides[name]; ok {
			mer = override
		}

		totals.TotalAllocation = totals.TotalAllocation.Add(pct)
		totals.WeightedMER = totals.WeightedMER.Add(domain.PercentOf(pct, mer))
		growth = growth.Add(domain.PercentOf(pct, inv.Growth))
		defensive = defensive.Add(domain.PercentOf(pct, inv.Defensive))
		totals.AssetClassBreakdown[inv.AssetClass] = totals.AssetClassBreakdown[inv.AssetClass].Add(pct)
	}

	totals.TotalGrowth = growth.Mul(domain.Hundred)
	totals.TotalDefensive = defensive.Mul(domain.Hundred)
	totals.TotalFees = balance.Mul(totals.WeightedMER)

	return totals
}

// Combine rolls per-account totals up to the portfolio. WeightedMER is balance-weighted
// and stays a fraction, so AnnualFees = TotalBalance * WeightedMER. Growth and defensive
// are summed across accounts without weighting.
func Combine(accounts []domain.Account, perAccount []domain.AccountTotals) domain.CombinedTotals {
	totalBalance := lo.Reduce(accounts, func(acc decimal.Decimal, a domain.Account, _ int) decimal.Decimal {
		return acc.Add(a.Balance)
	}, decimal.Zero)

	weightedMER := decimal.Zero
	if !totalBalance.IsZero() {
		for i, a := range accounts {
			if i >= len(perAccount) {
				break
			}
			weightedMER = weightedMER.Add(perAccount[i].WeightedMER.Mul(a.Balance).Div(totalBalance))
		}
	}

	growth := lo.Reduce(perAccount, func(acc decimal.Decimal, t domain.AccountTotals, _ int) decimal.Decimal {
		return acc.Add(t.TotalGrowth)
	}, decimal.Zero)
	defensive := lo.Reduce(perAccount, func(acc decimal.Decimal, t domain.AccountTotals, _ int) decimal.Decimal {
		return acc.Add(t.TotalDefensive)
	}, decimal.Zero)

	return domain.CombinedTotals{
		TotalBalance:     totalBalance,
		WeightedMER:      weightedMER,
		AnnualFees:       totalBalance.Mul(weightedMER),
		GrowthPercent:    growth,
		DefensivePercent: defensive,
	}
}

// Evaluation holds per-account and combined totals for a set of accounts.
type Evaluation struct {
	Accounts []domain.AccountTotals `json:"accounts"`
	Combined domain.CombinedTotals  `json:"combined"`
}

// Evaluate aggregates every account and combines the results.
func Evaluate(accounts []domain.Account, catalogue, overlay domain.InvestmentSet, overrides domain.MEROverrides) Evaluation {
	perAccount := lo.Map(accounts, func(a domain.Account, _ int) domain.AccountTotals {
		return Aggregate(a.Holdings, a.Balance, catalogue, overlay, overrides)
	})
	return Evaluation{
		Accounts: perAccount,
		Combined: Combine(accounts, perAccount),
	}
}
