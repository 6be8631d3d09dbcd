package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/roth-optimizer/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console-lite" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "ROTH CONVERSION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if report == nil || report.Comparison == nil {
		fmt.Fprintln(&buf, "No results.")
		return buf.Bytes(), nil
	}

	rec := AnalyzeReport(report)
	fmt.Fprintf(&buf, "Strategy: %s\n", rec.Strategy)
	fmt.Fprintf(&buf, "Final balance: %s\n", FormatWholeCurrency(rec.FinalBalance))
	fmt.Fprintf(&buf, "Never convert: %s\n", FormatWholeCurrency(rec.BaselineBalance))
	fmt.Fprintf(&buf, "Difference: %s (%s)\n", FormatWholeCurrency(rec.Delta), FormatPercentage(rec.PercentageChange))

	if report.Search != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Top strategies (%d evaluated):\n", len(report.Search.Cells))
		for i, cell := range report.Search.Top(report.TopN) {
			fmt.Fprintf(&buf, "%3d. age %d, %s/yr -> %s\n", i+1, cell.Strategy.StartAge,
				FormatWholeCurrency(cell.Strategy.AnnualAmount), FormatWholeCurrency(cell.FinalBalance))
		}
	}

	fmt.Fprintln(&buf)
	if rec.Beats {
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s)\n", rec.Strategy, FormatWholeCurrency(rec.Delta), FormatPercentage(rec.PercentageChange))
	} else {
		fmt.Fprintln(&buf, "Recommended: never convert")
	}
	return buf.Bytes(), nil
}
