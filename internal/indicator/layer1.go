package indicator

import (
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Layer1Calculator derives the risk split (I10-I13).
type Layer1Calculator struct{}

func (c *Layer1Calculator) IDs() []int          { return []int{10, 11, 12, 13} }
func (c *Layer1Calculator) Dependencies() []int { return []int{4, 5, 6} }

func (c *Layer1Calculator) Calculate(_ Data, deps map[int]Indicator) ([]Indicator, error) {
	v := Volatility(deps[4].Value, deps[5].Value)

	// I13: Unallocated = 100 - I6, may be negative when over-allocated
	i13 := domain.Hundred.Sub(deps[6].Value)

	return []Indicator{
		NewIndicator(10, v.NormalizedGrowth, "", ""),
		NewIndicator(11, v.NormalizedDefensive, "", ""),
		NewIndicator(12, decimal.NewFromInt(int64(v.Score)), "", ""),
		NewIndicator(13, i13, "", ""),
	}, nil
}
