package shared

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// ErrNotFound indicates that the requested shared portfolio was not found.
var ErrNotFound = errors.New("shared portfolio not found")

// Repository defines storage for shared portfolios.
type Repository interface {
	Save(ctx context.Context, p *domain.SharedPortfolio) error
	List(ctx context.Context, limit int) ([]domain.SharedPortfolio, error)
	Get(ctx context.Context, id string) (*domain.SharedPortfolio, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL shared portfolio repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Save inserts p and sets its creation time from the database.
func (r *PgRepository) Save(ctx context.Context, p *domain.SharedPortfolio) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO shared_portfolios (id, name, description, data_json, created_by)
		 VALUES ($1, $2, $3, $4::jsonb, $5)
		 RETURNING created_at`,
		p.ID, p.Name, p.Description, p.Data, p.CreatedBy).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving shared portfolio: %w", err)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context, limit int) ([]domain.SharedPortfolio, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id::text, name, description, data_json, created_by, created_at
		 FROM shared_portfolios
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing shared portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []domain.SharedPortfolio
	for rows.Next() {
		var p domain.SharedPortfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Data, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning shared portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shared portfolios: %w", err)
	}
	return portfolios, nil
}

// Get returns ErrNotFound for a missing row or an id that is not a UUID.
func (r *PgRepository) Get(ctx context.Context, id string) (*domain.SharedPortfolio, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var p domain.SharedPortfolio
	err := r.pool.QueryRow(ctx,
		`SELECT id::text, name, description, data_json, created_by, created_at
		 FROM shared_portfolios
		 WHERE id = $1`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Data, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting shared portfolio %s: %w", id, err)
	}
	return &p, nil
}
