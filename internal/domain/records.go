package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentRecord is a row of the investments table as stored remotely.
// Absent numeric columns decode to zero.
type InvestmentRecord struct {
	ID         int             `json:"id,omitempty" toml:"-"`
	Name       string          `json:"name" toml:"name"`
	MER        decimal.Decimal `json:"mer" toml:"mer"`
	Growth     decimal.Decimal `json:"growth" toml:"growth"`
	Defensive  decimal.Decimal `json:"defensive" toml:"defensive"`
	AssetClass string          `json:"asset_class" toml:"asset_class"`
	SortOrder  int             `json:"sort_order,omitempty" toml:"-"`
	Active     bool            `json:"active" toml:"-"`
}

// ModelRecord is a row of the models table: a model key and its risk-profile variants.
type ModelRecord struct {
	ModelKey    string                 `json:"model_key" toml:"model_key"`
	Allocations map[string]Allocations `json:"allocations" toml:"allocations"`
	Active      bool                   `json:"active" toml:"-"`
}

// SharedPortfolio is a portfolio saved for the team. Data is stored verbatim.
type SharedPortfolio struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data_json"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}
