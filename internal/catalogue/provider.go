package catalogue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

// Origin records where a catalogue table was loaded from.
type Origin string

const (
	OriginRemote   Origin = "remote"
	OriginDefaults Origin = "defaults"
)

const cacheKey = "catalogue"

// Catalogue is the investment catalogue and model table handed to the engine.
type Catalogue struct {
	Investments       domain.InvestmentSet `json:"investments"`
	Models            domain.ModelTable    `json:"models"`
	InvestmentsSource Origin               `json:"investmentsSource"`
	ModelsSource      Origin               `json:"modelsSource"`
	LoadedAt          time.Time            `json:"loadedAt"`
}

// Provider loads the catalogue from a Source and caches it for ttl.
// Each table falls back to the bundled defaults independently.
type Provider struct {
	source   Source
	cache    *cache.Cache
	defaults Catalogue
	mu       sync.Mutex
}

// NewProvider creates a Provider. A nil source always serves the defaults.
func NewProvider(source Source, ttl time.Duration) (*Provider, error) {
	defaults, err := Defaults()
	if err != nil {
		return nil, err
	}
	return &Provider{
		source:   source,
		cache:    cache.New(ttl, 2*ttl),
		defaults: defaults,
	}, nil
}

// Catalogue returns the cached catalogue, loading it on a miss.
func (p *Provider) Catalogue(ctx context.Context) (Catalogue, error) {
	if c, ok := p.cache.Get(cacheKey); ok {
		return c.(Catalogue), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.cache.Get(cacheKey); ok {
		return c.(Catalogue), nil
	}
	return p.load(ctx)
}

// Refresh reloads the catalogue from the source and replaces the cached copy.
func (p *Provider) Refresh(ctx context.Context) (Catalogue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load(ctx)
}

func (p *Provider) load(ctx context.Context) (Catalogue, error) {
	if err := ctx.Err(); err != nil {
		return Catalogue{}, fmt.Errorf("loading catalogue: %w", err)
	}

	c := Catalogue{
		Investments:       p.defaults.Investments,
		Models:            p.defaults.Models,
		InvestmentsSource: OriginDefaults,
		ModelsSource:      OriginDefaults,
		LoadedAt:          time.Now(),
	}

	if p.source != nil {
		if records, err := p.source.FetchInvestments(ctx); err != nil {
			slog.Warn("failed to fetch investments, using defaults", "error", err)
		} else if set := NormalizeInvestments(records); len(set) > 0 {
			c.Investments = set
			c.InvestmentsSource = OriginRemote
		} else {
			slog.Warn("remote investments empty, using defaults")
		}

		if records, err := p.source.FetchModels(ctx); err != nil {
			slog.Warn("failed to fetch models, using defaults", "error", err)
		} else if table := NormalizeModels(records); len(table) > 0 {
			c.Models = table
			c.ModelsSource = OriginRemote
		} else {
			slog.Warn("remote models empty, using defaults")
		}
	}

	p.cache.Set(cacheKey, c, cache.DefaultExpiration)
	slog.Info("catalogue loaded",
		"investments", len(c.Investments), "investmentsSource", c.InvestmentsSource,
		"models", len(c.Models), "modelsSource", c.ModelsSource)
	return c, nil
}
