// Package validation checks an account's holdings against the submission rules.
package validation

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one failed check.
type Finding struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Description string   `json:"description"`
}

// Report is the outcome of Check. Passes lists the checks that succeeded.
type Report struct {
	Findings []Finding `json:"findings"`
	Passes   []string  `json:"passes"`
	Valid    bool      `json:"valid"`
}

// Count returns the number of findings with the given severity.
func (r Report) Count(s Severity) int {
	return lo.CountBy(r.Findings, func(f Finding) bool { return f.Severity == s })
}

// Rules are the thresholds applied by Check.
type Rules struct {
	// Target is the required total allocation in percent.
	Target decimal.Decimal
	// MERCap is the recommended maximum MER as a fraction.
	MERCap decimal.Decimal
}

var (
	mismatchTolerance = decimal.RequireFromString("0.5")
	roundingTolerance = decimal.RequireFromString("0.01")
)

// DefaultRules requires 100% allocation and a 1.5% MER ceiling.
func DefaultRules() Rules {
	return Rules{Target: domain.Hundred, MERCap: decimal.RequireFromString("0.015")}
}

// Input is the account state under validation.
type Input struct {
	Holdings    domain.Allocations
	WeightedMER decimal.Decimal
	Growth      decimal.Decimal
	RiskProfile domain.RiskProfile
}

// AccountInput builds an Input from an account and its totals.
func AccountInput(a domain.Account, t domain.AccountTotals) Input {
	return Input{
		Holdings:    a.Holdings,
		WeightedMER: t.WeightedMER,
		Growth:      t.TotalGrowth,
		RiskProfile: a.RiskProfile,
	}
}

// Check runs every rule against in. The total allocation counts every holding,
// including names missing from the catalogue.
func Check(in Input, rules Rules) Report {
	var r Report

	total := in.Holdings.Total()
	diff := total.Sub(rules.Target).Abs()
	count := lo.CountBy(lo.Values(in.Holdings), func(pct decimal.Decimal) bool { return pct.IsPositive() })

	if len(in.Holdings) == 0 {
		r.Findings = append(r.Findings, Finding{
			ID:          "no-investments",
			Severity:    SeverityError,
			Message:     "No investments selected",
			Description: "Add at least one investment to the portfolio",
		})
	} else {
		r.Passes = append(r.Passes, "Investments added")
	}

	switch {
	case diff.GreaterThan(mismatchTolerance):
		r.Findings = append(r.Findings, Finding{
			ID:          "allocation-mismatch",
			Severity:    SeverityError,
			Message:     fmt.Sprintf("Allocation is %s%%, target is %s%%", total.StringFixed(1), rules.Target),
			Description: fmt.Sprintf("Total allocation must equal %s%% to submit", rules.Target),
		})
	case diff.GreaterThan(roundingTolerance):
		r.Findings = append(r.Findings, Finding{
			ID:          "allocation-minor",
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("Allocation is %s%%, rounding may apply", total.StringFixed(2)),
			Description: "Minor discrepancy due to rounding",
		})
	default:
		r.Passes = append(r.Passes, fmt.Sprintf("Allocation correct (%s%%)", total.StringFixed(1)))
	}

	merPct := in.WeightedMER.Mul(domain.Hundred).StringFixed(2)
	if in.WeightedMER.GreaterThan(rules.MERCap) {
		r.Findings = append(r.Findings, Finding{
			ID:          "high-mer",
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("MER is %s%%, recommended maximum is %s%%", merPct, rules.MERCap.Mul(domain.Hundred).StringFixed(2)),
			Description: "Consider allocating to lower-cost options",
		})
	} else {
		r.Passes = append(r.Passes, fmt.Sprintf("MER within limits (%s%%)", merPct))
	}

	switch {
	case count == 1:
		r.Findings = append(r.Findings, Finding{
			ID:          "low-diversification",
			Severity:    SeverityWarning,
			Message:     "Only 1 investment selected",
			Description: "Consider adding multiple investments for better diversification",
		})
	case count > 1:
		r.Passes = append(r.Passes, fmt.Sprintf("Diversification: %d investments", count))
	}

	if zero := lo.CountBy(lo.Values(in.Holdings), func(pct decimal.Decimal) bool { return pct.IsZero() }); zero > 0 {
		r.Findings = append(r.Findings, Finding{
			ID:          "zero-allocations",
			Severity:    SeverityInfo,
			Message:     fmt.Sprintf("%d investment(s) have 0%% allocation", zero),
			Description: "Remove investments with no allocation to clean up the portfolio",
		})
	}

	if band, ok := in.RiskProfile.Range(); ok && count > 0 {
		if in.Growth.LessThan(band.Min) || in.Growth.GreaterThan(band.Max) {
			r.Findings = append(r.Findings, Finding{
				ID:       "risk-profile-mismatch",
				Severity: SeverityWarning,
				Message: fmt.Sprintf("Growth assets are %s%%, %s target is %s-%s%%",
					in.Growth.StringFixed(1), band.Label, band.Min, band.Max),
				Description: "Adjust holdings or change the risk profile",
			})
		} else {
			r.Passes = append(r.Passes, fmt.Sprintf("Growth within %s range", band.Label))
		}
	}

	r.Valid = r.Count(SeverityError) == 0 && diff.LessThan(mismatchTolerance)
	return r
}
