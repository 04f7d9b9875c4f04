package catalogue

import (
	"log/slog"
	"strings"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// NormalizeInvestments indexes records by name. Records with a blank name are dropped
// and unknown asset classes become DIVERSIFIED. Later duplicates win.
func NormalizeInvestments(records []domain.InvestmentRecord) domain.InvestmentSet {
	set := make(domain.InvestmentSet, len(records))
	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			slog.Warn("dropping catalogue investment without name", "id", r.ID)
			continue
		}
		class, ok := domain.ParseAssetClass(strings.ReplaceAll(r.AssetClass, "_", " "))
		if !ok {
			if r.AssetClass != "" {
				slog.Warn("unknown asset class, using DIVERSIFIED", "investment", name, "assetClass", r.AssetClass)
			}
			class = domain.AssetClassDiversified
		}
		set[name] = domain.Investment{
			Name:       name,
			MER:        r.MER,
			Growth:     r.Growth,
			Defensive:  r.Defensive,
			AssetClass: class,
		}
	}
	return set
}

// NormalizeModels builds the model table. Keys are trimmed and lower-cased, risk-profile
// keys are mapped to their canonical form, and models without a key or variants are dropped.
func NormalizeModels(records []domain.ModelRecord) domain.ModelTable {
	table := make(domain.ModelTable, len(records))
	for _, r := range records {
		key := strings.ToLower(strings.TrimSpace(r.ModelKey))
		if key == "" || len(r.Allocations) == 0 {
			slog.Warn("dropping incomplete model record", "modelKey", r.ModelKey)
			continue
		}
		variants := make(map[string]domain.Allocations, len(r.Allocations))
		for profile, allocs := range r.Allocations {
			if p, err := domain.ParseRiskProfile(profile); err == nil {
				profile = string(p)
			}
			variants[profile] = allocs.Clone()
		}
		table[key] = variants
	}
	return table
}
