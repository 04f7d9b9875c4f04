package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/domain"
	"github.com/fordscott/portfolio-builder/internal/session"
)

// SheetWriter publishes export documents to a spreadsheet destination.
type SheetWriter interface {
	Write(ctx context.Context, doc Document) error
	AppendHistory(ctx context.Context, doc Document) error
}

// Service builds export documents and publishes them to a SheetWriter.
type Service struct {
	writer SheetWriter
	now    func() time.Time
}

// NewService creates a new export Service. writer may be nil when publishing is not configured.
func NewService(writer SheetWriter) *Service {
	return &Service{writer: writer, now: time.Now}
}

// Build evaluates the portfolio and flattens it for export.
func (s *Service) Build(doc session.Document, catalogue domain.InvestmentSet) (Document, allocation.Evaluation) {
	ev := allocation.Evaluate(doc.Accounts, catalogue, doc.CustomInvestments, doc.MEROverrides)
	return Build(doc, ev, catalogue, s.now()), ev
}

// Enabled reports whether a spreadsheet destination is configured.
func (s *Service) Enabled() bool {
	return s.writer != nil
}

// Publish rewrites the spreadsheet with doc and records it in the history sheet.
// A history failure is logged but does not fail the publish.
func (s *Service) Publish(ctx context.Context, doc Document) error {
	if s.writer == nil {
		return fmt.Errorf("publishing export: no spreadsheet configured")
	}
	if err := s.writer.Write(ctx, doc); err != nil {
		return fmt.Errorf("publishing export: %w", err)
	}
	if err := s.writer.AppendHistory(ctx, doc); err != nil {
		slog.Warn("export: history append failed", "error", err)
	}
	slog.Info("export published", "accounts", len(doc.Accounts), "rows", len(doc.Rows))
	return nil
}
