package compare

import (
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Summary holds the deltas shown next to the current totals.
// MER is compared in percentage points.
type Summary struct {
	Allocation Change `json:"allocation"`
	MER        Change `json:"mer"`
	Growth     Change `json:"growth"`
	Defensive  Change `json:"defensive"`
	Fees       Change `json:"fees"`
	// FeesPercent is the relative change in fees, zero when the baseline had none.
	FeesPercent decimal.Decimal `json:"feesPercent"`
}

// Summarize compares one account's totals against its baseline totals.
func Summarize(current, baseline domain.AccountTotals) Summary {
	return Summary{
		Allocation:  Delta(current.TotalAllocation, baseline.TotalAllocation, DefaultThreshold),
		MER:         Delta(current.WeightedMER.Mul(domain.Hundred), baseline.WeightedMER.Mul(domain.Hundred), DefaultThreshold),
		Growth:      Delta(current.TotalGrowth, baseline.TotalGrowth, DefaultThreshold),
		Defensive:   Delta(current.TotalDefensive, baseline.TotalDefensive, DefaultThreshold),
		Fees:        Delta(current.TotalFees, baseline.TotalFees, DefaultThreshold),
		FeesPercent: PercentChange(current.TotalFees, baseline.TotalFees),
	}
}

// SummarizeCombined compares portfolio totals. Allocation carries the balance change.
func SummarizeCombined(current, baseline domain.CombinedTotals) Summary {
	return Summary{
		Allocation:  Delta(current.TotalBalance, baseline.TotalBalance, DefaultThreshold),
		MER:         Delta(current.WeightedMER.Mul(domain.Hundred), baseline.WeightedMER.Mul(domain.Hundred), DefaultThreshold),
		Growth:      Delta(current.GrowthPercent, baseline.GrowthPercent, DefaultThreshold),
		Defensive:   Delta(current.DefensivePercent, baseline.DefensivePercent, DefaultThreshold),
		Fees:        Delta(current.AnnualFees, baseline.AnnualFees, DefaultThreshold),
		FeesPercent: PercentChange(current.AnnualFees, baseline.AnnualFees),
	}
}

// Changed reports whether any delta in the summary is outside the flat band.
func (s Summary) Changed() bool {
	for _, c := range []Change{s.Allocation, s.MER, s.Growth, s.Defensive, s.Fees} {
		if c.Direction != Flat {
			return true
		}
	}
	return false
}
