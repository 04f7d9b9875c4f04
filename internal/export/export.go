package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fordscott/portfolio-builder/internal/allocation"
	"github.com/fordscott/portfolio-builder/internal/domain"
	"github.com/fordscott/portfolio-builder/internal/session"
)

// ErrUnknownFormat is returned for an export format that has no encoder.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Row is one holding of one account with its derived amounts.
type Row struct {
	AccountID   int                `json:"accountId"`
	Account     string             `json:"account"`
	AccountType domain.AccountType `json:"accountType"`
	RiskProfile domain.RiskProfile `json:"riskProfile"`
	Investment  string             `json:"investment"`
	AssetClass  domain.AssetClass  `json:"assetClass"`
	Allocation  decimal.Decimal    `json:"allocation"`
	Amount      decimal.Decimal    `json:"amount"`
	MER         decimal.Decimal    `json:"mer"`
	AnnualFee   decimal.Decimal    `json:"annualFee"`
	Custom      bool               `json:"custom"`
}

// AccountSummary pairs an account with its totals.
type AccountSummary struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name"`
	Type        domain.AccountType   `json:"type"`
	RiskProfile domain.RiskProfile   `json:"riskProfile"`
	IsESG       bool                 `json:"isESG"`
	Balance     decimal.Decimal      `json:"balance"`
	Totals      domain.AccountTotals `json:"totals"`
}

// Document is the export-ready view of a portfolio.
type Document struct {
	GeneratedAt time.Time             `json:"generatedAt"`
	Client      domain.ClientDetails  `json:"clientDetails"`
	Rows        []Row                 `json:"rows"`
	Accounts    []AccountSummary      `json:"accounts"`
	Combined    domain.CombinedTotals `json:"combined"`
}

// Build flattens a portfolio document into export rows. Holdings that are
// unknown to the catalogue or non-positive are left out, as they are in the totals.
func Build(doc session.Document, ev allocation.Evaluation, catalogue domain.InvestmentSet, now time.Time) Document {
	overlay := doc.CustomInvestments
	merged := catalogue.Merge(overlay)

	out := Document{
		GeneratedAt: now.UTC(),
		Client:      doc.Client,
		Combined:    ev.Combined,
	}

	for i, a := range doc.Accounts {
		var totals domain.AccountTotals
		if i < len(ev.Accounts) {
			totals = ev.Accounts[i]
		}
		out.Accounts = append(out.Accounts, AccountSummary{
			ID:          a.ID,
			Name:        a.Name,
			Type:        a.Type,
			RiskProfile: a.RiskProfile,
			IsESG:       a.IsESG,
			Balance:     a.Balance,
			Totals:      totals,
		})

		for _, name := range a.Holdings.Names() {
			pct := a.Holdings[name]
			inv, ok := merged[name]
			if !ok || !pct.IsPositive() {
				continue
			}
			mer := inv.MER
			if o, ok := doc.MEROverrides[name]; ok {
				mer = o
			}
			amount := domain.PercentOf(pct, a.Balance)
			_, custom := overlay[name]
			out.Rows = append(out.Rows, Row{
				AccountID:   a.ID,
				Account:     a.Name,
				AccountType: a.Type,
				RiskProfile: a.RiskProfile,
				Investment:  name,
				AssetClass:  inv.AssetClass,
				Allocation:  pct,
				Amount:      amount,
				MER:         mer,
				AnnualFee:   amount.Mul(mer),
				Custom:      custom,
			})
		}
	}

	return out
}

// RowsFor returns the rows of one account.
func (d Document) RowsFor(accountID int) []Row {
	return lo.Filter(d.Rows, func(r Row, _ int) bool { return r.AccountID == accountID })
}

// Encode writes the document in the given format.
func Encode(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
