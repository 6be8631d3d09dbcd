package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/roth-optimizer/internal/domain"
)

// CSVDetailedExporter provides the raw yearly trace of the reported strategy
// alongside the baseline total and spread for external charting.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "detailed-csv" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Age", "Phase", "Salary", "PreTax", "Roth", "Brokerage", "Total",
		"Conversion", "ConversionTax", "TaxRate", "RMD", "RMDTax", "Contributed", "Withdrawn",
		"WithdrawalTax", "Unfunded", "NeverConvertTotal", "SpreadPct"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if report == nil || report.Comparison == nil {
		w.Flush()
		return buf.Bytes(), w.Error()
	}

	cmp := report.Comparison
	for i, yr := range cmp.Result.Trace {
		baseline, spread := "", ""
		if i < len(cmp.Spread) {
			baseline = cmp.Spread[i].Baseline.StringFixed(2)
			spread = cmp.Spread[i].SpreadPct.StringFixed(4)
		}
		row := []string{
			intToString(yr.Age),
			string(yr.Phase),
			yr.Salary.StringFixed(2),
			yr.PreTax.StringFixed(2),
			yr.Roth.StringFixed(2),
			yr.Brokerage.StringFixed(2),
			yr.Total.StringFixed(2),
			yr.Conversion.StringFixed(2),
			yr.ConversionTax.StringFixed(2),
			yr.TaxRate.StringFixed(6),
			yr.RMD.StringFixed(2),
			yr.RMDTax.StringFixed(2),
			yr.Contributed.StringFixed(2),
			yr.Withdrawn.StringFixed(2),
			yr.WithdrawalTax.StringFixed(2),
			yr.Unfunded.StringFixed(2),
			baseline,
			spread,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
