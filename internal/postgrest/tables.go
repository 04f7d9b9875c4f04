package postgrest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fordscott/portfolio-builder/internal/domain"
	"github.com/fordscott/portfolio-builder/internal/shared"
)

// FetchInvestments returns the active investments in display order.
func (c *Client) FetchInvestments(ctx context.Context) ([]domain.InvestmentRecord, error) {
	var records []domain.InvestmentRecord
	if err := c.getJSON(ctx, "/rest/v1/investments?select=*&active=eq.true&order=sort_order.asc", &records); err != nil {
		return nil, fmt.Errorf("fetching investments: %w", err)
	}
	return records, nil
}

// FetchModels returns the active model templates.
func (c *Client) FetchModels(ctx context.Context) ([]domain.ModelRecord, error) {
	var records []domain.ModelRecord
	if err := c.getJSON(ctx, "/rest/v1/models?select=*&active=eq.true", &records); err != nil {
		return nil, fmt.Errorf("fetching models: %w", err)
	}
	return records, nil
}

// Save inserts a shared portfolio and fills in the stored creation time.
func (c *Client) Save(ctx context.Context, p *domain.SharedPortfolio) error {
	row := struct {
		ID          string `json:"id,omitempty"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Data        any    `json:"data_json"`
		CreatedBy   string `json:"created_by"`
	}{p.ID, p.Name, p.Description, p.Data, p.CreatedBy}

	var created []domain.SharedPortfolio
	if err := c.postJSON(ctx, "/rest/v1/shared_portfolios", row, &created); err != nil {
		return fmt.Errorf("saving shared portfolio: %w", err)
	}
	if len(created) > 0 {
		p.ID = created[0].ID
		p.CreatedAt = created[0].CreatedAt
	}
	return nil
}

// List returns shared portfolios, newest first. limit <= 0 returns all.
func (c *Client) List(ctx context.Context, limit int) ([]domain.SharedPortfolio, error) {
	path := "/rest/v1/shared_portfolios?select=*&order=created_at.desc"
	if limit > 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}
	var records []domain.SharedPortfolio
	if err := c.getJSON(ctx, path, &records); err != nil {
		return nil, fmt.Errorf("listing shared portfolios: %w", err)
	}
	return records, nil
}

// Get returns one shared portfolio by id.
func (c *Client) Get(ctx context.Context, id string) (*domain.SharedPortfolio, error) {
	var records []domain.SharedPortfolio
	path := "/rest/v1/shared_portfolios?select=*&id=eq." + url.QueryEscape(id)
	if err := c.getJSON(ctx, path, &records); err != nil {
		return nil, fmt.Errorf("getting shared portfolio %s: %w", id, err)
	}
	if len(records) == 0 {
		return nil, shared.ErrNotFound
	}
	return &records[0], nil
}
