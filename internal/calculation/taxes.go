package calculation

import (
	"github.com/shopspring/decimal"
)

// TAX MODEL ASSUMPTIONS:
//
// 1. Ordinary income uses a single 7-tier progressive schedule with fixed
//    nominal thresholds. Thresholds are indexed by inflation from the first
//    simulated year; rates never change.
// 2. No standard deduction, state tax or FICA is modeled.
// 3. Conversions and required distributions are taxed at the effective
//    (average) rate of the year's taxable income, not the marginal rate.

// TaxBracket is one tier of the progressive schedule. The upper bound is the
// next bracket's Min; the last bracket is unbounded.
type TaxBracket struct {
	Rate decimal.Decimal
	Min  decimal.Decimal
}

// TaxBracketSchedule is an ascending list of brackets.
type TaxBracketSchedule []TaxBracket

// DefaultTaxBrackets returns the literal 10/12/22/24/32/35/37% schedule.
func DefaultTaxBrackets() TaxBracketSchedule {
	return TaxBracketSchedule{
		{decimal.NewFromFloat(0.10), decimal.Zero},
		{decimal.NewFromFloat(0.12), decimal.NewFromInt(41300)},
		{decimal.NewFromFloat(0.22), decimal.NewFromInt(167900)},
		{decimal.NewFromFloat(0.24), decimal.NewFromInt(358300)},
		{decimal.NewFromFloat(0.32), decimal.NewFromInt(683300)},
		{decimal.NewFromFloat(0.35), decimal.NewFromInt(867600)},
		{decimal.NewFromFloat(0.37), decimal.NewFromInt(1302800)},
	}
}

// InflationFactor returns (1+inflation)^years.
func InflationFactor(inflation decimal.Decimal, years int) decimal.Decimal {
	return decimal.NewFromInt(1).Add(inflation).Pow(decimal.NewFromInt(int64(years)))
}

// Scaled returns a copy of the schedule with every threshold multiplied by factor.
func (s TaxBracketSchedule) Scaled(factor decimal.Decimal) TaxBracketSchedule {
	out := make(TaxBracketSchedule, len(s))
	for i, b := range s {
		out[i] = TaxBracket{Rate: b.Rate, Min: b.Min.Mul(factor)}
	}
	return out
}

// Tax returns the total tax owed on income under the (already scaled) schedule.
func (s TaxBracketSchedule) Tax(income decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	remaining := income
	for i, bracket := range s {
		if income.LessThanOrEqual(bracket.Min) {
			break
		}
		taxable := remaining
		if i+1 < len(s) {
			taxable = decimal.Min(remaining, s[i+1].Min.Sub(bracket.Min))
		}
		if taxable.IsPositive() {
			tax = tax.Add(taxable.Mul(bracket.Rate))
			remaining = remaining.Sub(taxable)
		}
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
	}
	return tax
}

// EffectiveRate returns total tax / income for income earned yearsElapsed years
// after the first simulated year. Non-positive income is untaxed.
func (s TaxBracketSchedule) EffectiveRate(income decimal.Decimal, yearsElapsed int, inflation decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	scaled := s.Scaled(InflationFactor(inflation, yearsElapsed))
	return scaled.Tax(income).Div(income)
}

// EffectiveRate evaluates the default schedule.
func EffectiveRate(income decimal.Decimal, yearsElapsed int, inflation decimal.Decimal) decimal.Decimal {
	return DefaultTaxBrackets().EffectiveRate(income, yearsElapsed, inflation)
}
