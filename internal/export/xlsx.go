package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

const (
	holdingsSheet = "HOLDINGS"
	summarySheet  = "SUMMARY"
)

// WriteXLSX writes a workbook with a HOLDINGS sheet and a SUMMARY sheet.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", holdingsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", summarySheet, err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9EAD3"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeRows(f, holdingsSheet, holdingsValues(doc), header); err != nil {
		return err
	}
	if err := writeRows(f, summarySheet, summaryValues(doc), header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing %s header: %w", sheet, err)
	}
	return nil
}

// holdingsValues lays out the HOLDINGS sheet.
// Columns: Account | Type | Risk Profile | Investment | Asset Class | Allocation % | Amount | MER % | Annual Fee
func holdingsValues(doc Document) [][]any {
	data := make([][]any, 0, len(doc.Rows)+1)
	data = append(data, []any{
		"Account", "Type", "Risk Profile", "Investment", "Asset Class",
		"Allocation %", "Amount", "MER %", "Annual Fee",
	})
	for _, r := range doc.Rows {
		data = append(data, []any{
			r.Account, string(r.AccountType), r.RiskProfile.Label(),
			r.Investment, string(r.AssetClass),
			toFloat(r.Allocation), toFloat(r.Amount),
			toFloat(r.MER.Mul(domain.Hundred)), toFloat(r.AnnualFee),
		})
	}
	return data
}

// summaryValues lays out the SUMMARY sheet: one row per account and a total row.
func summaryValues(doc Document) [][]any {
	data := [][]any{
		{"Account", "Balance", "Allocation %", "MER %", "Growth %", "Defensive %", "Annual Fees"},
	}
	for _, a := range doc.Accounts {
		data = append(data, []any{
			a.Name,
			toFloat(a.Balance),
			toFloat(a.Totals.TotalAllocation),
			toFloat(a.Totals.WeightedMER.Mul(domain.Hundred)),
			toFloat(a.Totals.TotalGrowth),
			toFloat(a.Totals.TotalDefensive),
			toFloat(a.Totals.TotalFees),
		})
	}
	c := doc.Combined
	data = append(data, []any{
		"Total",
		toFloat(c.TotalBalance),
		nil,
		toFloat(c.WeightedMER.Mul(domain.Hundred)),
		toFloat(c.GrowthPercent),
		toFloat(c.DefensivePercent),
		toFloat(c.AnnualFees),
	})
	return data
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
