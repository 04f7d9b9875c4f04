package indicator

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// IndicatorMeta holds the canonical name and unit for an indicator.
type IndicatorMeta struct {
	Name string
	Unit string
}

// indicatorRegistry maps indicator IDs to their canonical metadata.
// Calculators construct indicators through NewIndicator so names stay consistent.
var indicatorRegistry = map[int]IndicatorMeta{
	1:  {Name: "Balance", Unit: "AUD"},
	2:  {Name: "Weighted MER", Unit: "%"},
	3:  {Name: "Annual Fees", Unit: "AUD"},
	4:  {Name: "Growth Assets", Unit: "%"},
	5:  {Name: "Defensive Assets", Unit: "%"},
	6:  {Name: "Total Allocation", Unit: "%"},
	10: {Name: "Normalized Growth", Unit: "%"},
	11: {Name: "Normalized Defensive", Unit: "%"},
	12: {Name: "Volatility Score", Unit: "score"},
	13: {Name: "Unallocated", Unit: "%"},
	20: {Name: "Fees per 10k Invested", Unit: "AUD"},
	21: {Name: "MER Headroom", Unit: "%"},
	22: {Name: "Growth Target Gap", Unit: "%"},
}

// Indicator is one calculated portfolio metric.
type Indicator struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Unit  string          `json:"unit"`
}

// NewIndicator creates an indicator using the canonical metadata from the registry.
// Falls back to the provided name and unit if the ID is not registered.
func NewIndicator(id int, value decimal.Decimal, name, unit string) Indicator {
	if meta, ok := indicatorRegistry[id]; ok {
		return Indicator{ID: id, Name: meta.Name, Value: value, Unit: meta.Unit}
	}
	return Indicator{ID: id, Name: name, Value: value, Unit: unit}
}

// Calculator computes one or more indicators from the input and previously computed indicators.
type Calculator interface {
	IDs() []int
	Dependencies() []int
	Calculate(data Data, deps map[int]Indicator) ([]Indicator, error)
}

// Registry manages the execution of calculators in dependency order.
type Registry struct {
	calculators   []Calculator
	registeredIDs map[int]bool
}

// NewRegistry creates a new indicator registry.
func NewRegistry() *Registry {
	return &Registry{registeredIDs: make(map[int]bool)}
}

// Register adds a calculator to the registry.
// Panics if any indicator ID is already registered (programming error).
func (r *Registry) Register(calc Calculator) {
	for _, id := range calc.IDs() {
		if r.registeredIDs[id] {
			panic(fmt.Sprintf("duplicate indicator ID %d registered", id))
		}
		r.registeredIDs[id] = true
	}
	r.calculators = append(r.calculators, calc)
}

// CalculateAll runs all registered calculators in dependency order.
func (r *Registry) CalculateAll(data Data) ([]Indicator, error) {
	ordered, err := r.topologicalSort()
	if err != nil {
		return nil, fmt.Errorf("sorting calculators: %w", err)
	}

	computed := make(map[int]Indicator)
	var all []Indicator

	for _, calc := range ordered {
		for _, dep := range calc.Dependencies() {
			if _, ok := computed[dep]; !ok {
				return nil, fmt.Errorf("indicator %v depends on I%d which is not yet computed", calc.IDs(), dep)
			}
		}

		indicators, err := calc.Calculate(data, computed)
		if err != nil {
			return nil, fmt.Errorf("calculating indicators %v: %w", calc.IDs(), err)
		}

		for _, ind := range indicators {
			computed[ind.ID] = ind
			all = append(all, ind)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})

	return all, nil
}

// topologicalSort orders calculators so dependencies come first.
// Returns an error if a dependency cycle is detected.
func (r *Registry) topologicalSort() ([]Calculator, error) {
	calcByID := make(map[int]Calculator)
	for _, calc := range r.calculators {
		for _, id := range calc.IDs() {
			calcByID[id] = calc
		}
	}

	visited := make(map[Calculator]bool)
	inProgress := make(map[Calculator]bool)
	var ordered []Calculator

	var visit func(calc Calculator) error
	visit = func(calc Calculator) error {
		if visited[calc] {
			return nil
		}
		if inProgress[calc] {
			return fmt.Errorf("dependency cycle detected involving indicators %v", calc.IDs())
		}
		inProgress[calc] = true

		for _, dep := range calc.Dependencies() {
			if depCalc, ok := calcByID[dep]; ok {
				if err := visit(depCalc); err != nil {
					return err
				}
			}
		}

		delete(inProgress, calc)
		visited[calc] = true
		ordered = append(ordered, calc)
		return nil
	}

	for _, calc := range r.calculators {
		if err := visit(calc); err != nil {
			return nil, err
		}
	}

	return lo.Uniq(ordered), nil
}

// ByID indexes indicators by ID.
func ByID(indicators []Indicator) map[int]Indicator {
	return lo.KeyBy(indicators, func(ind Indicator) int { return ind.ID })
}
