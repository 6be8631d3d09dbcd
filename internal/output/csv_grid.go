package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/roth-optimizer/internal/domain"
)

// CSVGridExporter writes the ranked strategies, one row per grid cell. A
// simulate report has no grid, so its strategy and the baseline are ranked instead.
type CSVGridExporter struct{}

func (c CSVGridExporter) Name() string      { return "csv" }
func (c CSVGridExporter) Extension() string { return "csv" }

func (c CSVGridExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Rank", "Strategy", "StartAge", "AnnualAmount", "FinalBalance", "DeltaVsNever"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if report == nil || report.Comparison == nil {
		w.Flush()
		return buf.Bytes(), w.Error()
	}

	baseline := report.Comparison.Baseline.FinalBalance
	cells := gridRows(report)
	for i, cell := range cells {
		startAge := ""
		if !cell.Strategy.IsNever() {
			startAge = intToString(cell.Strategy.StartAge)
		}
		row := []string{
			intToString(i + 1),
			cell.Strategy.String(),
			startAge,
			cell.Strategy.AnnualAmount.StringFixed(2),
			cell.FinalBalance.StringFixed(2),
			cell.FinalBalance.Sub(baseline).StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func gridRows(report *domain.Report) []domain.GridCell {
	if report.Search != nil {
		return report.Search.Cells
	}
	cmp := report.Comparison
	rows := []domain.GridCell{
		{Strategy: cmp.Result.Strategy, FinalBalance: cmp.Result.FinalBalance},
		{Strategy: cmp.Baseline.Strategy, FinalBalance: cmp.Baseline.FinalBalance},
	}
	if rows[1].FinalBalance.GreaterThan(rows[0].FinalBalance) {
		rows[0], rows[1] = rows[1], rows[0]
	}
	return rows
}
