package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/roth-optimizer/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string      { return "console" }
func (c ConsoleVerboseFormatter) Extension() string { return "txt" }

func (c ConsoleVerboseFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "ROTH CONVERSION ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	if report == nil || report.Comparison == nil {
		fmt.Fprintln(&buf, "No results.")
		return buf.Bytes(), nil
	}
	cmp := report.Comparison

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(cmp.Parameters, cmp.Policies) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	p := cmp.Parameters
	fmt.Fprintln(&buf, "INPUTS")
	fmt.Fprintln(&buf, "======")
	fmt.Fprintf(&buf, "Simulation ages:      %d to %d (retire at %d)\n", p.StartAge, p.EndAge, p.RetirementAge)
	fmt.Fprintf(&buf, "Starting salary:      %s\n", FormatWholeCurrency(p.Salary))
	fmt.Fprintf(&buf, "Initial pre-tax:      %s\n", FormatWholeCurrency(p.InitialCapital))
	fmt.Fprintln(&buf)

	if report.Search != nil {
		writeSearchTable(&buf, report)
	}

	writeComparison(&buf, cmp)
	writeYearTable(&buf, cmp)

	rec := AnalyzeReport(report)
	fmt.Fprintln(&buf, "RECOMMENDATION")
	fmt.Fprintln(&buf, strings.Repeat("=", 50))
	if rec.Beats {
		fmt.Fprintf(&buf, "%s ends %s (%s) ahead of never converting.\n", rec.Strategy, FormatWholeCurrency(rec.Delta), FormatPercentage(rec.PercentageChange))
		if rec.CrossoverAge > 0 {
			fmt.Fprintf(&buf, "It stays ahead from age %d onward.\n", rec.CrossoverAge)
		}
	} else {
		fmt.Fprintf(&buf, "Never converting ends %s ahead of %s.\n", FormatWholeCurrency(rec.Delta.Neg()), rec.Strategy)
	}
	return buf.Bytes(), nil
}

func writeSearchTable(buf *bytes.Buffer, report *domain.Report) {
	g := report.Search.Grid
	fmt.Fprintf(buf, "GRID SEARCH: ages %d-%d, amounts %s-%s step %s (%d strategies)\n", g.AgeMin, g.AgeMax,
		FormatWholeCurrency(g.AmountMin), FormatWholeCurrency(g.AmountMax), FormatWholeCurrency(g.AmountStep), len(report.Search.Cells))
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	fmt.Fprintf(buf, "%-6s %-10s %-16s %s\n", "Rank", "Start Age", "Annual Amount", "Final Balance")
	for i, cell := range report.Search.Top(report.TopN) {
		fmt.Fprintf(buf, "%-6d %-10d %-16s %s\n", i+1, cell.Strategy.StartAge,
			FormatWholeCurrency(cell.Strategy.AnnualAmount), FormatWholeCurrency(cell.FinalBalance))
	}
	fmt.Fprintln(buf)
}

func writeComparison(buf *bytes.Buffer, cmp *domain.Comparison) {
	s, b := cmp.Result, cmp.Baseline
	fmt.Fprintf(buf, "%-22s %20s %20s\n", "", "STRATEGY", "NEVER CONVERT")
	fmt.Fprintln(buf, strings.Repeat("-", 64))
	row := func(label, left, right string) { fmt.Fprintf(buf, "%-22s %20s %20s\n", label, left, right) }
	row("Pre-tax", FormatWholeCurrency(s.Final.PreTax), FormatWholeCurrency(b.Final.PreTax))
	row("Roth", FormatWholeCurrency(s.Final.Roth), FormatWholeCurrency(b.Final.Roth))
	row("Brokerage", FormatWholeCurrency(s.Final.Brokerage), FormatWholeCurrency(b.Final.Brokerage))
	row("Final balance", FormatWholeCurrency(s.FinalBalance), FormatWholeCurrency(b.FinalBalance))
	row("Taxes paid", FormatWholeCurrency(s.TotalTaxes()), FormatWholeCurrency(b.TotalTaxes()))
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Strategy: %s\n", s.Strategy)
	fmt.Fprintf(buf, "Difference: %s\n", FormatWholeCurrency(cmp.FinalDelta))
	fmt.Fprintln(buf)
}

func writeYearTable(buf *bytes.Buffer, cmp *domain.Comparison) {
	fmt.Fprintln(buf, "YEAR-BY-YEAR")
	fmt.Fprintln(buf, strings.Repeat("-", 110))
	fmt.Fprintf(buf, "%-4s %-12s %14s %14s %14s %14s %12s %12s %9s\n",
		"Age", "Phase", "Pre-tax", "Roth", "Brokerage", "Total", "Converted", "RMD", "Spread")
	for i, y := range cmp.Result.Trace {
		spread := "-"
		if i < len(cmp.Spread) {
			spread = FormatPercentage(cmp.Spread[i].SpreadPct)
		}
		fmt.Fprintf(buf, "%-4d %-12s %14s %14s %14s %14s %12s %12s %9s\n",
			y.Age, y.Phase,
			FormatWholeCurrency(y.PreTax), FormatWholeCurrency(y.Roth), FormatWholeCurrency(y.Brokerage), FormatWholeCurrency(y.Total),
			FormatWholeCurrency(y.Conversion), FormatWholeCurrency(y.RMD), spread)
	}
	fmt.Fprintln(buf)
}
