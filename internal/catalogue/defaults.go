package catalogue

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

//go:embed defaults.toml
var defaultsTOML []byte

type defaultsFile struct {
	Investments []domain.InvestmentRecord `toml:"investments"`
	Models      []domain.ModelRecord      `toml:"models"`
}

// ParseDefaults decodes a catalogue file in the bundled TOML layout.
func ParseDefaults(data []byte) ([]domain.InvestmentRecord, []domain.ModelRecord, error) {
	var f defaultsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing catalogue defaults: %w", err)
	}
	return f.Investments, f.Models, nil
}

// Defaults returns the bundled catalogue, normalized.
func Defaults() (Catalogue, error) {
	investments, models, err := ParseDefaults(defaultsTOML)
	if err != nil {
		return Catalogue{}, err
	}
	return Catalogue{
		Investments:       NormalizeInvestments(investments),
		Models:            NormalizeModels(models),
		InvestmentsSource: OriginDefaults,
		ModelsSource:      OriginDefaults,
	}, nil
}

// EncodeTOML writes the catalogue in the bundled TOML layout, ordered by name and key,
// so a remote catalogue can be snapshotted as new defaults.
func EncodeTOML(c Catalogue) ([]byte, error) {
	var f defaultsFile
	for _, name := range c.Investments.Names() {
		inv := c.Investments[name]
		f.Investments = append(f.Investments, domain.InvestmentRecord{
			Name:       inv.Name,
			MER:        inv.MER,
			Growth:     inv.Growth,
			Defensive:  inv.Defensive,
			AssetClass: string(inv.AssetClass),
		})
	}
	for _, key := range c.Models.Keys() {
		f.Models = append(f.Models, domain.ModelRecord{ModelKey: key, Allocations: c.Models[key]})
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding catalogue: %w", err)
	}
	return data, nil
}
