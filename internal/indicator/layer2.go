package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

var tenThousand = decimal.NewFromInt(10000)

// Layer2Calculator computes cost and target ratios (I20, I21, I22).
type Layer2Calculator struct {
	// MERCap is the advisory MER ceiling in percent.
	MERCap decimal.Decimal
}

func (c *Layer2Calculator) IDs() []int          { return []int{20, 21, 22} }
func (c *Layer2Calculator) Dependencies() []int { return []int{1, 2, 3, 10} }

func (c *Layer2Calculator) Calculate(data Data, deps map[int]Indicator) ([]Indicator, error) {
	// I20: Fees per 10k = I3 / I1 * 10000
	i20 := domain.SafeDiv(deps[3].Value, deps[1].Value).Mul(tenThousand)

	// I21: MER headroom = cap - I2
	i21 := c.MERCap.Sub(deps[2].Value)

	// I22: distance of I10 outside the risk profile's growth band, zero inside it
	i22 := decimal.Zero
	if r, ok := data.RiskProfile.Range(); ok {
		growth := deps[10].Value
		switch {
		case growth.LessThan(r.Min):
			i22 = growth.Sub(r.Min)
		case growth.GreaterThan(r.Max):
			i22 = growth.Sub(r.Max)
		}
	}

	return []Indicator{
		NewIndicator(20, i20, "", ""),
		NewIndicator(21, i21, "", ""),
		NewIndicator(22, i22, "", ""),
	}, nil
}
