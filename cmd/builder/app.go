package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fordscott/portfolio-builder/internal/catalogue"
	"github.com/fordscott/portfolio-builder/internal/config"
	"github.com/fordscott/portfolio-builder/internal/database"
	"github.com/fordscott/portfolio-builder/internal/export"
	"github.com/fordscott/portfolio-builder/internal/indicator"
	"github.com/fordscott/portfolio-builder/internal/postgrest"
	"github.com/fordscott/portfolio-builder/internal/shared"
	"github.com/fordscott/portfolio-builder/internal/validation"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// services is the wired dependency graph shared by all commands.
type services struct {
	cfg        config.Config
	pool       *pgxpool.Pool
	catalogue  *catalogue.Provider
	shared     *shared.Service // nil without a store
	exports    *export.Service
	indicators *indicator.Service
	rules      validation.Rules
}

// setup connects to the configured stores. The database is optional: without it
// the catalogue comes from the table store URL or the bundled defaults.
func setup(ctx context.Context, cfg config.Config) (*services, error) {
	s := &services{
		cfg:        cfg,
		indicators: indicator.NewService(cfg.MERCap),
		rules:      validation.Rules{Target: validation.DefaultRules().Target, MERCap: cfg.MERCap},
	}

	var remote *postgrest.Client
	if cfg.CatalogueURL != "" {
		remote = postgrest.NewClient(cfg.CatalogueURL, cfg.CatalogueAPIKey,
			cfg.CatalogueRetryMax, cfg.CatalogueRetryBaseDelay, cfg.CatalogueRateLimit)
	}

	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		migrations, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrations); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		s.pool = pool
	}

	var source catalogue.Source
	switch {
	case remote != nil:
		source = remote
	case s.pool != nil:
		source = catalogue.NewPgSource(s.pool)
	default:
		slog.Warn("no catalogue source configured, using bundled defaults")
	}

	provider, err := catalogue.NewProvider(source, cfg.CatalogueCacheTTL)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating catalogue provider: %w", err)
	}
	s.catalogue = provider

	switch {
	case s.pool != nil:
		s.shared = shared.NewService(shared.NewPgRepository(s.pool), cfg.SharedCreatedBy)
	case remote != nil:
		s.shared = shared.NewService(remote, cfg.SharedCreatedBy)
	}

	var writer export.SheetWriter
	if cfg.SheetsEnabled() {
		w, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.GoogleCredentialsJSON)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("creating sheets writer: %w", err)
		}
		writer = w
	}
	s.exports = export.NewService(writer)

	return s, nil
}

// Close releases the database pool.
func (s *services) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *services) requireShared() (*shared.Service, error) {
	if s.shared == nil {
		return nil, fmt.Errorf("no shared portfolio store: set DATABASE_URL or CATALOGUE_URL")
	}
	return s.shared, nil
}
