package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals are the blended metrics of one account's holdings.
// WeightedMER is a fraction; TotalGrowth and TotalDefensive are percentages.
type AccountTotals struct {
	TotalAllocation     decimal.Decimal                `json:"totalAllocation"`
	WeightedMER         decimal.Decimal                `json:"weightedMER"`
	TotalGrowth         decimal.Decimal                `json:"totalGrowth"`
	TotalDefensive      decimal.Decimal                `json:"totalDefensive"`
	TotalFees           decimal.Decimal                `json:"totalFees"`
	AssetClassBreakdown map[AssetClass]decimal.Decimal `json:"assetClassBreakdown"`
}

// CombinedTotals are portfolio-level metrics across all accounts.
// GrowthPercent and DefensivePercent are plain sums of the per-account percentages.
type CombinedTotals struct {
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	WeightedMER      decimal.Decimal `json:"weightedMER"`
	AnnualFees       decimal.Decimal `json:"annualFees"`
	GrowthPercent    decimal.Decimal `json:"growthPercent"`
	DefensivePercent decimal.Decimal `json:"defensivePercent"`
}

// Baseline is a saved copy of the account list used for before/after comparison.
type Baseline struct {
	Accounts  []Account `json:"accounts"`
	Timestamp time.Time `json:"timestamp"`
}
