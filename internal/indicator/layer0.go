package indicator

import "github.com/fordscott/portfolio-builder/internal/domain"

// Layer0Calculator reports the raw totals (I1-I6).
type Layer0Calculator struct{}

func (c *Layer0Calculator) IDs() []int          { return []int{1, 2, 3, 4, 5, 6} }
func (c *Layer0Calculator) Dependencies() []int { return nil }

func (c *Layer0Calculator) Calculate(data Data, _ map[int]Indicator) ([]Indicator, error) {
	return []Indicator{
		NewIndicator(1, data.Balance, "", ""),
		// I2 is shown in percent, the engine keeps MER as a fraction.
		NewIndicator(2, data.WeightedMER.Mul(domain.Hundred), "", ""),
		NewIndicator(3, data.Fees, "", ""),
		NewIndicator(4, data.Growth, "", ""),
		NewIndicator(5, data.Defensive, "", ""),
		NewIndicator(6, data.TotalAllocation, "", ""),
	}, nil
}
