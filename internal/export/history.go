package export

import (
	"context"
	"fmt"

	sheets "google.golang.org/api/sheets/v4"

	"github.com/fordscott/portfolio-builder/internal/format"
)

const historySheet = "HISTORY"

// historyColumns are the columns of the HISTORY sheet, one row per published export.
var historyColumns = []string{
	"Date", "Client", "Adviser", "Transaction", "Priority", "Accounts",
	"Total Balance", "MER %", "Annual Fees", "Growth %", "Defensive %",
}

// historyCurrencyCols are 0-based indices formatted as whole dollars.
var historyCurrencyCols = []int{6, 8}

// buildHistoryRow builds the header row and the data row for one export.
func buildHistoryRow(doc Document) (header, data []any) {
	header = make([]any, len(historyColumns))
	for i, h := range historyColumns {
		header[i] = h
	}

	c := doc.Combined
	data = []any{
		format.Date(doc.GeneratedAt),
		doc.Client.ClientName,
		doc.Client.AdviserName,
		doc.Client.TransactionType,
		doc.Client.Priority,
		len(doc.Accounts),
		toFloat(c.TotalBalance),
		toFloat(c.WeightedMER.Shift(2).Round(4)),
		toFloat(c.AnnualFees.Round(2)),
		toFloat(c.GrowthPercent.Round(2)),
		toFloat(c.DefensivePercent.Round(2)),
	}
	return header, data
}

// AppendHistory ensures the HISTORY sheet exists, writes the header if the sheet
// is empty, then appends one row describing the export.
func (w *SheetsWriter) AppendHistory(ctx context.Context, doc Document) error {
	meta, err := w.ensureSheets(ctx, historySheet)
	if err != nil {
		return fmt.Errorf("ensuring %s sheet: %w", historySheet, err)
	}

	header, row := buildHistoryRow(doc)

	existing, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, historySheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading %s header: %w", historySheet, err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			historySheet+"!A1",
			&sheets.ValueRange{Values: [][]any{header}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing %s header: %w", historySheet, err)
		}
		if err := w.formatHistory(ctx, meta[historySheet]); err != nil {
			return fmt.Errorf("formatting %s sheet: %w", historySheet, err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		historySheet+"!A:K",
		&sheets.ValueRange{Values: [][]any{row}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending %s row: %w", historySheet, err)
	}

	return nil
}

// formatHistory styles the header row, freezes it and sets number formats.
func (w *SheetsWriter) formatHistory(ctx context.Context, m sheetMeta) error {
	lightGreen := &sheets.Color{Red: 0.851, Green: 0.918, Blue: 0.827}
	cols := int64(len(historyColumns))

	reqs := []*sheets.Request{
		cellFormatReq(m.id, 0, 1, 0, cols,
			&sheets.CellFormat{
				BackgroundColor:     lightGreen,
				TextFormat:          &sheets.TextFormat{Bold: true},
				HorizontalAlignment: "CENTER",
			},
			"userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)"),
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        m.id,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	for _, col := range historyCurrencyCols {
		reqs = append(reqs, cellFormatReq(m.id, 1, 10000, int64(col), int64(col+1),
			&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: "$#,##0"}},
			"userEnteredFormat.numberFormat"))
	}

	for _, bid := range m.bandingIDs {
		reqs = append(reqs, &sheets.Request{
			DeleteBanding: &sheets.DeleteBandingRequest{BandedRangeId: bid},
		})
	}

	_, err := w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: reqs},
	).Context(ctx).Do()
	return err
}
