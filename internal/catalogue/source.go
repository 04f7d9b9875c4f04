// Package catalogue supplies the investment catalogue and model templates to the engine,
// falling back to the bundled tables when the remote store is unavailable.
package catalogue

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Source loads raw catalogue records.
type Source interface {
	FetchInvestments(ctx context.Context) ([]domain.InvestmentRecord, error)
	FetchModels(ctx context.Context) ([]domain.ModelRecord, error)
}

// PgSource reads the catalogue tables from PostgreSQL.
type PgSource struct {
	pool *pgxpool.Pool
}

func NewPgSource(pool *pgxpool.Pool) *PgSource {
	return &PgSource{pool: pool}
}

func (s *PgSource) FetchInvestments(ctx context.Context) ([]domain.InvestmentRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, mer::text, growth::text, defensive::text, asset_class, sort_order
		 FROM investments
		 WHERE active
		 ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("querying investments: %w", err)
	}
	defer rows.Close()

	var records []domain.InvestmentRecord
	for rows.Next() {
		var (
			r                      domain.InvestmentRecord
			mer, growth, defensive *string
		)
		if err := rows.Scan(&r.ID, &r.Name, &mer, &growth, &defensive, &r.AssetClass, &r.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning investment: %w", err)
		}
		r.MER = parseNullable(mer)
		r.Growth = parseNullable(growth)
		r.Defensive = parseNullable(defensive)
		r.Active = true
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating investments: %w", err)
	}
	return records, nil
}

func (s *PgSource) FetchModels(ctx context.Context) ([]domain.ModelRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT model_key, allocations FROM models WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("querying models: %w", err)
	}
	defer rows.Close()

	var records []domain.ModelRecord
	for rows.Next() {
		var (
			r   domain.ModelRecord
			raw []byte
		)
		if err := rows.Scan(&r.ModelKey, &raw); err != nil {
			return nil, fmt.Errorf("scanning model: %w", err)
		}
		if err := json.Unmarshal(raw, &r.Allocations); err != nil {
			return nil, fmt.Errorf("decoding allocations for model %s: %w", r.ModelKey, err)
		}
		r.Active = true
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating models: %w", err)
	}
	return records, nil
}

func parseNullable(s *string) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	return domain.SafeParse(*s)
}
