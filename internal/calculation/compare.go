package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// Compare runs strategy and the never-convert baseline with full traces and
// reports the per-year spread between them.
func (ce *CalculationEngine) Compare(params domain.SimulationParameters, strategy domain.Strategy, policies domain.Policies) (*domain.Comparison, error) {
	result, err := ce.Simulate(params, strategy, policies, true)
	if err != nil {
		return nil, fmt.Errorf("strategy run failed: %w", err)
	}
	baseline, err := ce.Simulate(params, domain.NeverConvert, policies, true)
	if err != nil {
		return nil, fmt.Errorf("baseline run failed: %w", err)
	}

	return &domain.Comparison{
		Parameters: params,
		Policies:   policies,
		Result:     *result,
		Baseline:   *baseline,
		Spread:     SpreadSeries(result.Trace, baseline.Trace),
		FinalDelta: result.FinalBalance.Sub(baseline.FinalBalance),
	}, nil
}

// SpreadSeries returns (strategy - baseline) / baseline * 100 for each age
// present in both traces; a zero baseline yields a zero spread.
func SpreadSeries(strategy, baseline []domain.YearRecord) []domain.SpreadPoint {
	n := len(strategy)
	if len(baseline) < n {
		n = len(baseline)
	}
	out := make([]domain.SpreadPoint, n)
	for i := 0; i < n; i++ {
		s, b := strategy[i].Total, baseline[i].Total
		pct := decimal.Zero
		if !b.IsZero() {
			pct = s.Sub(b).Div(b).Mul(hundred)
		}
		out[i] = domain.SpreadPoint{Age: strategy[i].Age, Strategy: s, Baseline: b, SpreadPct: pct}
	}
	return out
}

// RunSimulation builds a manual-mode report for one strategy.
func (ce *CalculationEngine) RunSimulation(params domain.SimulationParameters, strategy domain.Strategy, policies domain.Policies) (*domain.Report, error) {
	cmp, err := ce.Compare(params, strategy, policies)
	if err != nil {
		return nil, err
	}
	return &domain.Report{Mode: domain.ModeSimulate, Comparison: cmp}, nil
}

// RunSearch builds a search-mode report: the ranked grid plus a comparison of
// the best strategy against the baseline.
func (gs *GridSearcher) RunSearch(ctx context.Context, grid domain.SearchGrid, params domain.SimulationParameters, policies domain.Policies, topN int) (*domain.Report, error) {
	ranked, err := gs.Search(ctx, grid, params, policies)
	if err != nil {
		return nil, err
	}
	best, ok := ranked.Best()
	if !ok {
		return nil, fmt.Errorf("%w: no strategies evaluated", ErrInvalidGrid)
	}
	cmp, err := gs.Engine.Compare(params, best.Strategy, policies)
	if err != nil {
		return nil, err
	}
	return &domain.Report{Mode: domain.ModeSearch, Comparison: cmp, Search: ranked, TopN: topN}, nil
}
