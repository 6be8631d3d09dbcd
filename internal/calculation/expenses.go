package calculation

import (
	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// accountSource identifies one bucket in a withdrawal waterfall.
type accountSource int

const (
	sourceBrokerage accountSource = iota
	sourceRoth
	sourcePreTax
)

// waterfallOrders lists the draw order for each named policy.
var waterfallOrders = map[domain.WaterfallPolicy][]accountSource{
	domain.WaterfallBrokerageRothPreTax: {sourceBrokerage, sourceRoth, sourcePreTax},
	domain.WaterfallBrokeragePreTaxRoth: {sourceBrokerage, sourcePreTax, sourceRoth},
}

// ExpenseDraw summarizes how a living expense was funded.
type ExpenseDraw struct {
	Net      decimal.Decimal // delivered to spending
	Tax      decimal.Decimal // tax on pre-tax draws
	Unfunded decimal.Decimal // need left uncovered
}

// FundExpense draws need from the accounts in waterfall order. Brokerage and
// Roth cover the need one for one; pre-tax draws are grossed up for tax at the
// effective rate of the remaining need. Unknown policies fall back to the default order.
func (ce *CalculationEngine) FundExpense(state *domain.AccountState, need decimal.Decimal, policy domain.WaterfallPolicy, elapsed int, inflation decimal.Decimal) ExpenseDraw {
	order, ok := waterfallOrders[policy]
	if !ok {
		order = waterfallOrders[domain.WaterfallBrokerageRothPreTax]
	}

	draw := ExpenseDraw{Net: decimal.Zero, Tax: decimal.Zero, Unfunded: decimal.Zero}
	remaining := need
	for _, src := range order {
		if !remaining.IsPositive() {
			break
		}
		switch src {
		case sourceBrokerage:
			take := available(state.Brokerage, remaining)
			state.Brokerage = state.Brokerage.Sub(take)
			remaining = remaining.Sub(take)
			draw.Net = draw.Net.Add(take)
		case sourceRoth:
			take := available(state.Roth, remaining)
			state.Roth = state.Roth.Sub(take)
			remaining = remaining.Sub(take)
			draw.Net = draw.Net.Add(take)
		case sourcePreTax:
			if !state.PreTax.IsPositive() {
				continue
			}
			rate := ce.Brackets.EffectiveRate(remaining, elapsed, inflation)
			gross := remaining.Div(one.Sub(rate))
			net := remaining
			if state.PreTax.LessThan(gross) {
				gross = state.PreTax
				net = gross.Mul(one.Sub(rate))
			}
			tax := gross.Sub(net)
			state.PreTax = state.PreTax.Sub(gross)
			remaining = remaining.Sub(net)
			draw.Net = draw.Net.Add(net)
			draw.Tax = draw.Tax.Add(tax)
		}
	}
	if remaining.IsPositive() {
		draw.Unfunded = remaining
	}
	return draw
}

// available returns how much of need a balance can cover.
func available(balance, need decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(balance, need)
}
