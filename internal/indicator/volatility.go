package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Risk levels by normalized growth share.
const (
	RiskLevelConservative = "Conservative"
	RiskLevelBalanced     = "Balanced"
	RiskLevelGrowth       = "Growth"
	RiskLevelHighGrowth   = "High Growth"
)

var (
	ten          = decimal.NewFromInt(10)
	levelBalance = decimal.NewFromInt(30)
	levelGrowth  = decimal.NewFromInt(50)
	levelHigh    = decimal.NewFromInt(80)
)

// VolatilityProfile describes expected volatility from the growth/defensive split.
type VolatilityProfile struct {
	NormalizedGrowth    decimal.Decimal `json:"normalizedGrowth"`
	NormalizedDefensive decimal.Decimal `json:"normalizedDefensive"`
	Score               int             `json:"score"`
	RiskLevel           string          `json:"riskLevel"`
}

// Volatility rescales growth and defensive so they sum to 100 and scores the result from 1 to 10.
// A zero split scores 1 and is Conservative.
func Volatility(growth, defensive decimal.Decimal) VolatilityProfile {
	total := growth.Add(defensive)
	var p VolatilityProfile
	if total.IsPositive() {
		p.NormalizedGrowth = growth.Div(total).Mul(domain.Hundred)
		p.NormalizedDefensive = defensive.Div(total).Mul(domain.Hundred)
	}

	p.Score = int(p.NormalizedGrowth.Div(ten).Round(0).IntPart())
	p.Score = min(max(p.Score, 1), 10)

	switch {
	case p.NormalizedGrowth.LessThan(levelBalance):
		p.RiskLevel = RiskLevelConservative
	case p.NormalizedGrowth.LessThan(levelGrowth):
		p.RiskLevel = RiskLevelBalanced
	case p.NormalizedGrowth.LessThan(levelHigh):
		p.RiskLevel = RiskLevelGrowth
	default:
		p.RiskLevel = RiskLevelHighGrowth
	}
	return p
}
