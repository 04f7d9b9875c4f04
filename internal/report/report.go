// Package report renders a portfolio as a Markdown summary for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/fordscott/portfolio-builder/internal/compare"
	"github.com/fordscott/portfolio-builder/internal/domain"
	"github.com/fordscott/portfolio-builder/internal/export"
	"github.com/fordscott/portfolio-builder/internal/format"
	"github.com/fordscott/portfolio-builder/internal/indicator"
	"github.com/fordscott/portfolio-builder/internal/session"
	"github.com/fordscott/portfolio-builder/internal/validation"
)

// Input is everything a report can show. Indicators, Validation and Comparison are optional.
type Input struct {
	Document   export.Document
	Indicators *indicator.Report
	Validation map[int]validation.Report
	Comparison *session.Comparison
}

// Markdown renders the portfolio summary as Markdown.
func Markdown(in Input) string {
	var sb strings.Builder
	doc := in.Document

	sb.WriteString("# Portfolio Summary\n\n")
	writeClient(&sb, doc)

	c := doc.Combined
	sb.WriteString("## Portfolio\n\n")
	sb.WriteString("| Total Balance | Weighted MER | Annual Fees | Growth | Defensive |\n")
	sb.WriteString("|---------------|--------------|-------------|--------|-----------|\n")
	sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n\n",
		format.Currency(c.TotalBalance),
		format.Percent(c.WeightedMER, 2),
		format.Currency(c.AnnualFees),
		format.Points(c.GrowthPercent, 1),
		format.Points(c.DefensivePercent, 1),
	))

	if in.Comparison != nil {
		writeComparison(&sb, "Change since baseline", in.Comparison.Combined, in.Comparison.SavedAt)
	}

	if in.Indicators != nil {
		writeIndicators(&sb, "Portfolio Indicators", in.Indicators.Portfolio)
	}

	for _, a := range doc.Accounts {
		writeAccount(&sb, in, a)
	}

	return sb.String()
}

func writeClient(sb *strings.Builder, doc export.Document) {
	cl := doc.Client
	sb.WriteString(fmt.Sprintf("**Date:** %s\n", format.Date(doc.GeneratedAt)))
	if cl.ClientName != "" {
		sb.WriteString(fmt.Sprintf("**Client:** %s\n", cl.ClientName))
	}
	if cl.AdviserName != "" {
		sb.WriteString(fmt.Sprintf("**Adviser:** %s\n", cl.AdviserName))
	}
	if cl.TransactionType != "" {
		sb.WriteString(fmt.Sprintf("**Transaction:** %s\n", cl.TransactionType))
	}
	if cl.Priority != "" {
		sb.WriteString(fmt.Sprintf("**Priority:** %s\n", cl.Priority))
	}
	if cl.Notes != "" {
		sb.WriteString(fmt.Sprintf("\n> %s\n", strings.ReplaceAll(cl.Notes, "\n", "\n> ")))
	}
	sb.WriteString("\n")
}

func writeAccount(sb *strings.Builder, in Input, a export.AccountSummary) {
	t := a.Totals
	esg := ""
	if a.IsESG {
		esg = ", ESG"
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", a.Name))
	sb.WriteString(fmt.Sprintf("%s, %s%s, balance **%s**\n\n", titleCase(string(a.Type)), a.RiskProfile.Label(), esg, format.Currency(a.Balance)))

	rows := in.Document.RowsFor(a.ID)
	if len(rows) > 0 {
		sb.WriteString("| Investment | Asset Class | Allocation | Amount | MER | Annual Fee |\n")
		sb.WriteString("|------------|-------------|------------|--------|-----|------------|\n")
		for _, r := range rows {
			name := r.Investment
			if r.Custom {
				name += " *"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s%% | %s | %s | %s |\n",
				name, r.AssetClass, domain.FormatFixed(r.Allocation, 2),
				format.Currency(r.Amount), format.Percent(r.MER, 2), format.Currency(r.AnnualFee)))
		}
		sb.WriteString(fmt.Sprintf("| **Total** | | **%s%%** | | **%s** | **%s** |\n\n",
			domain.FormatFixed(t.TotalAllocation, 2), format.Percent(t.WeightedMER, 2), format.Currency(t.TotalFees)))
	} else {
		sb.WriteString("_No investments selected._\n\n")
	}

	sb.WriteString(fmt.Sprintf("Growth %s / Defensive %s\n\n", format.Points(t.TotalGrowth, 1), format.Points(t.TotalDefensive, 1)))

	if len(t.AssetClassBreakdown) > 0 {
		sb.WriteString("| Asset Class | Allocation |\n")
		sb.WriteString("|-------------|------------|\n")
		for _, class := range domain.AssetClasses {
			if pct, ok := t.AssetClassBreakdown[class]; ok {
				sb.WriteString(fmt.Sprintf("| %s | %s%% |\n", class, domain.FormatFixed(pct, 2)))
			}
		}
		sb.WriteString("\n")
	}

	if in.Comparison != nil {
		if s, ok := in.Comparison.Accounts[a.ID]; ok {
			writeComparison(sb, "Change since baseline", s, time.Time{})
		}
	}

	if in.Indicators != nil {
		writeIndicators(sb, "Indicators", in.Indicators.Accounts[a.ID])
	}

	if rep, ok := in.Validation[a.ID]; ok {
		writeValidation(sb, rep)
	}
}

func writeComparison(sb *strings.Builder, title string, s compare.Summary, savedAt time.Time) {
	if savedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	} else {
		sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", title, format.Date(savedAt)))
	}
	sb.WriteString("| Metric | Change |\n")
	sb.WriteString("|--------|--------|\n")
	sb.WriteString(fmt.Sprintf("| MER | %s |\n", change(s.MER, s.MER.Value.StringFixed(2)+" pts")))
	sb.WriteString(fmt.Sprintf("| Growth | %s |\n", change(s.Growth, s.Growth.Value.StringFixed(1)+"%")))
	sb.WriteString(fmt.Sprintf("| Defensive | %s |\n", change(s.Defensive, s.Defensive.Value.StringFixed(1)+"%")))
	sb.WriteString(fmt.Sprintf("| Annual Fees | %s (%s) |\n\n",
		change(s.Fees, format.Currency(s.Fees.Value)),
		format.Signed(s.FeesPercent.StringFixed(1)+"%", s.FeesPercent)))
}

func change(c compare.Change, text string) string {
	switch c.Direction {
	case compare.Up:
		return "▲ +" + text
	case compare.Down:
		return "▼ " + text
	default:
		return "no change"
	}
}

func writeIndicators(sb *strings.Builder, title string, inds []indicator.Indicator) {
	if len(inds) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	sb.WriteString("| # | Indicator | Value |\n")
	sb.WriteString("|---|-----------|-------|\n")
	for _, ind := range inds {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s |\n", ind.ID, ind.Name, indicatorValue(ind)))
	}
	sb.WriteString("\n")
}

func indicatorValue(ind indicator.Indicator) string {
	switch ind.Unit {
	case "AUD":
		return format.Currency(ind.Value)
	case "%":
		return format.Points(ind.Value, 2)
	default:
		return ind.Value.Round(2).String()
	}
}

func writeValidation(sb *strings.Builder, rep validation.Report) {
	if len(rep.Findings) == 0 {
		return
	}
	sb.WriteString("### Checks\n\n")
	for _, f := range rep.Findings {
		sb.WriteString(fmt.Sprintf("- **%s** %s", strings.ToUpper(string(f.Severity)), f.Message))
		if f.Description != "" {
			sb.WriteString(": " + f.Description)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Render formats Markdown for the terminal. style is a glamour standard style
// name ("dark", "light", "notty"); an empty style detects the terminal background.
func Render(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out, nil
}
