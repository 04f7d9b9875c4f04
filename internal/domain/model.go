package domain

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Allocations maps investment name to a percentage of the account (0..100).
type Allocations map[string]decimal.Decimal

// Clone returns a shallow copy; decimals are immutable values.
func (a Allocations) Clone() Allocations {
	out := make(Allocations, len(a))
	for name, pct := range a {
		out[name] = pct
	}
	return out
}

// Total sums every percentage, including zero and negative entries.
func (a Allocations) Total() decimal.Decimal {
	return lo.Reduce(lo.Values(a), func(acc, pct decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(pct)
	}, decimal.Zero)
}

// Names returns the allocation keys in sorted order.
func (a Allocations) Names() []string {
	names := lo.Keys(a)
	sort.Strings(names)
	return names
}

// ModelTable maps a model key to its risk-profile variants.
type ModelTable map[string]map[string]Allocations

// Keys returns the model keys in sorted order.
func (t ModelTable) Keys() []string {
	keys := lo.Keys(t)
	sort.Strings(keys)
	return keys
}
