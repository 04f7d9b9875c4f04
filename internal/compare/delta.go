// Package compare computes before/after deltas between a saved baseline and the current totals.
package compare

import (
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Direction of a change relative to the baseline.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

// DefaultThreshold is the band around zero treated as no change.
var DefaultThreshold = decimal.RequireFromString("0.01")

// Change is the signed difference current-baseline and its direction.
type Change struct {
	Value     decimal.Decimal `json:"value"`
	Direction Direction       `json:"direction"`
}

// Delta classifies current-baseline against threshold. Values within the band are flat.
func Delta(current, baseline, threshold decimal.Decimal) Change {
	v := current.Sub(baseline)
	switch {
	case v.GreaterThan(threshold):
		return Change{Value: v, Direction: Up}
	case v.LessThan(threshold.Neg()):
		return Change{Value: v, Direction: Down}
	default:
		return Change{Value: v, Direction: Flat}
	}
}

// PercentChange returns (current-baseline)/baseline*100, or zero when baseline is zero.
func PercentChange(current, baseline decimal.Decimal) decimal.Decimal {
	if baseline.IsZero() {
		return decimal.Zero
	}
	return current.Sub(baseline).Div(baseline).Mul(domain.Hundred)
}
