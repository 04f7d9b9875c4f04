package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/fordscott/portfolio-builder/internal/catalogue"
)

// CatalogueRefresher reloads the investment catalogue from its source.
type CatalogueRefresher interface {
	Refresh(ctx context.Context) (catalogue.Catalogue, error)
}

// CatalogueWorker periodically refreshes the cached catalogue.
type CatalogueWorker struct {
	refresher CatalogueRefresher
	interval  time.Duration
}

// NewCatalogueWorker creates a new CatalogueWorker.
func NewCatalogueWorker(refresher CatalogueRefresher, interval time.Duration) *CatalogueWorker {
	return &CatalogueWorker{
		refresher: refresher,
		interval:  interval,
	}
}

func (w *CatalogueWorker) refresh(ctx context.Context, phase string) {
	c, err := w.refresher.Refresh(ctx)
	if err != nil {
		slog.Error("CatalogueWorker: "+phase+" refresh failed", "error", err)
		return
	}
	slog.Info("CatalogueWorker: "+phase+" refresh completed",
		"investments", len(c.Investments),
		"investments_source", c.InvestmentsSource,
		"models", len(c.Models),
		"models_source", c.ModelsSource,
	)
}

// Run starts the refresh loop. It blocks until the context is cancelled.
// A non-positive interval refreshes once and disables the schedule.
func (w *CatalogueWorker) Run(ctx context.Context) {
	slog.Info("CatalogueWorker: starting", "interval", w.interval)

	// Refresh immediately on startup
	w.refresh(ctx, "initial")

	if w.interval <= 0 {
		slog.Warn("CatalogueWorker: non-positive interval, scheduled refresh disabled", "interval", w.interval)
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("CatalogueWorker: shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx, "scheduled")
		}
	}
}
