package output

import (
	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation summarizes how the reported strategy fares against never converting.
type Recommendation struct {
	Strategy         domain.Strategy
	FinalBalance     decimal.Decimal
	BaselineBalance  decimal.Decimal
	Delta            decimal.Decimal
	PercentageChange decimal.Decimal
	Beats            bool
	CrossoverAge     int // first age from which the strategy stays ahead; 0 if never
}

// AnalyzeReport derives the recommendation shown by the console and HTML formatters.
// Extracted from embedded console logic for testability.
func AnalyzeReport(report *domain.Report) Recommendation {
	if report == nil || report.Comparison == nil {
		return Recommendation{}
	}
	cmp := report.Comparison
	rec := Recommendation{
		Strategy:         cmp.Result.Strategy,
		FinalBalance:     cmp.Result.FinalBalance,
		BaselineBalance:  cmp.Baseline.FinalBalance,
		Delta:            cmp.FinalDelta,
		PercentageChange: decimal.Zero,
		Beats:            cmp.Beats(),
	}
	if !rec.BaselineBalance.IsZero() {
		rec.PercentageChange = rec.Delta.Div(rec.BaselineBalance).Mul(decimalHundred)
	}
	rec.CrossoverAge = crossoverAge(cmp.Spread)
	return rec
}

// crossoverAge walks the spread backwards to find where the strategy last
// moved ahead of the baseline for good.
func crossoverAge(spread []domain.SpreadPoint) int {
	age := 0
	for i := len(spread) - 1; i >= 0; i-- {
		if !spread[i].SpreadPct.IsPositive() {
			break
		}
		age = spread[i].Age
	}
	return age
}
