package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fordscott/portfolio-builder/internal/domain"
)

var csvHeader = []string{
	"Account ID", "Account", "Account Type", "Risk Profile",
	"Investment", "Asset Class", "Allocation %", "Amount", "MER %", "Annual Fee",
}

// WriteCSV writes one line per holding followed by a blank line and
// one summary line per account plus a portfolio total.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	records := [][]string{csvHeader}
	for _, r := range doc.Rows {
		records = append(records, []string{
			strconv.Itoa(r.AccountID),
			r.Account,
			string(r.AccountType),
			r.RiskProfile.Label(),
			r.Investment,
			string(r.AssetClass),
			domain.FormatFixed(r.Allocation, 2),
			r.Amount.StringFixed(2),
			r.MER.Mul(domain.Hundred).StringFixed(2),
			r.AnnualFee.StringFixed(2),
		})
	}

	records = append(records,
		[]string{},
		[]string{"Account ID", "Account", "Balance", "Allocation %", "MER %", "Growth %", "Defensive %", "Annual Fees"},
	)
	for _, a := range doc.Accounts {
		records = append(records, []string{
			strconv.Itoa(a.ID),
			a.Name,
			a.Balance.StringFixed(2),
			domain.FormatFixed(a.Totals.TotalAllocation, 2),
			a.Totals.WeightedMER.Mul(domain.Hundred).StringFixed(2),
			a.Totals.TotalGrowth.StringFixed(1),
			a.Totals.TotalDefensive.StringFixed(1),
			a.Totals.TotalFees.StringFixed(2),
		})
	}
	c := doc.Combined
	records = append(records, []string{
		"", "Total",
		c.TotalBalance.StringFixed(2),
		"",
		c.WeightedMER.Mul(domain.Hundred).StringFixed(2),
		c.GrowthPercent.StringFixed(1),
		c.DefensivePercent.StringFixed(1),
		c.AnnualFees.StringFixed(2),
	})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
