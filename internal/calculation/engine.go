package calculation

import (
	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
)

// balanceScale bounds the decimal places carried between years so repeated
// multiplication does not grow coefficients without limit.
const balanceScale int32 = 12

var one = decimal.NewFromInt(1)

// CalculationEngine runs year-by-year account projections.
type CalculationEngine struct {
	Brackets TaxBracketSchedule
	Debug    bool // Enable per-year debug output
	Logger   Logger
}

// NewCalculationEngine creates an engine with the default bracket schedule.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Brackets: DefaultTaxBrackets(),
		Logger:   NopLogger{},
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// yearContext carries the per-run constants needed by each yearly step.
type yearContext struct {
	params          domain.SimulationParameters
	strategy        domain.Strategy
	policies        domain.Policies
	schedule        RMDSchedule
	growth          decimal.Decimal
	brokerageGrowth decimal.Decimal
	salaryGrowth    decimal.Decimal
}

func newYearContext(params domain.SimulationParameters, strategy domain.Strategy, policies domain.Policies) (yearContext, error) {
	schedule, err := NewRMDSchedule(policies.RMDPolicyOrDefault())
	if err != nil {
		return yearContext{}, err
	}
	return yearContext{
		params:          params,
		strategy:        strategy,
		policies:        policies,
		schedule:        schedule,
		growth:          one.Add(params.CAGR),
		brokerageGrowth: one.Add(params.CAGR.Mul(one.Sub(params.CapitalGains))),
		salaryGrowth:    one.Add(params.SalaryGrowth),
	}, nil
}

// Simulate projects the three accounts from StartAge through EndAge under the
// strategy. When trace is true every year is recorded in the result.
func (ce *CalculationEngine) Simulate(params domain.SimulationParameters, strategy domain.Strategy, policies domain.Policies, trace bool) (*domain.SimulationResult, error) {
	yc, err := newYearContext(params, strategy, policies)
	if err != nil {
		return nil, err
	}

	state := domain.AccountState{PreTax: params.InitialCapital, Roth: decimal.Zero, Brokerage: decimal.Zero}
	salary := params.Salary

	result := &domain.SimulationResult{Strategy: strategy}
	if trace {
		result.Trace = make([]domain.YearRecord, 0, params.Years())
	}

	for age := params.StartAge; age <= params.EndAge; age++ {
		rec := ce.step(&yc, &state, age, salary)

		// Salary advances after the year's taxes, only between the first year
		// and retirement, and never during distribution years.
		if rec.Phase != domain.PhaseDistribution && params.StartAge < age && age < params.RetirementAge {
			salary = salary.Mul(yc.salaryGrowth)
		}

		if ce.Debug {
			ce.Logger.Debugf("age %d [%s]: pre-tax=%s roth=%s brokerage=%s conversion=%s tax=%s rmd=%s",
				age, rec.Phase, rec.PreTax.StringFixed(2), rec.Roth.StringFixed(2), rec.Brokerage.StringFixed(2),
				rec.Conversion.StringFixed(2), rec.ConversionTax.Add(rec.RMDTax).StringFixed(2), rec.RMD.StringFixed(2))
		}
		if trace {
			result.Trace = append(result.Trace, rec)
		}
	}

	result.Final = state
	result.FinalBalance = state.Total()
	return result, nil
}

// step applies one year's transition to state and returns the year's record.
func (ce *CalculationEngine) step(yc *yearContext, state *domain.AccountState, age int, salary decimal.Decimal) domain.YearRecord {
	p := yc.params
	elapsed := age - p.StartAge
	working := age < p.RetirementAge
	rec := domain.YearRecord{Age: age, Salary: salary}

	if yc.policies.Contributions.Enabled && working {
		rec.Contributed = Contribution(yc.policies.Contributions, salary)
		state.PreTax = state.PreTax.Add(rec.Contributed)
	}

	switch {
	case age >= domain.RMDStartAge:
		rec.Phase = domain.PhaseDistribution
		ce.distribute(yc, state, &rec, age, elapsed)
	case yc.strategy.Converts(age):
		rec.Phase = domain.PhaseConversion
		ce.convert(yc, state, &rec, elapsed, working, salary)
	default:
		rec.Phase = domain.PhaseGrowth
	}

	if yc.policies.Expenses.Enabled && !working {
		need := yc.policies.Expenses.AnnualAmount.Mul(InflationFactor(p.InflationRate, elapsed))
		draw := ce.FundExpense(state, need, yc.policies.Expenses.WaterfallOrDefault(), elapsed, p.InflationRate)
		rec.Withdrawn = draw.Net
		rec.WithdrawalTax = draw.Tax
		rec.Unfunded = draw.Unfunded
	}

	state.PreTax = state.PreTax.Mul(yc.growth).Round(balanceScale)
	state.Roth = state.Roth.Mul(yc.growth).Round(balanceScale)
	state.Brokerage = state.Brokerage.Mul(yc.brokerageGrowth).Round(balanceScale)

	rec.PreTax = state.PreTax
	rec.Roth = state.Roth
	rec.Brokerage = state.Brokerage
	rec.Total = state.Total()
	return rec
}

// convert moves min(amount, pre-tax) into Roth and pays the tax on it, first
// from brokerage and then from the pre-tax balance itself.
func (ce *CalculationEngine) convert(yc *yearContext, state *domain.AccountState, rec *domain.YearRecord, elapsed int, working bool, salary decimal.Decimal) {
	conversion := decimal.Min(yc.strategy.AnnualAmount, state.PreTax)
	income := conversion
	if working {
		income = income.Add(salary)
	}
	rate := ce.Brackets.EffectiveRate(income, elapsed, yc.params.InflationRate)
	tax := conversion.Mul(rate)

	state.PreTax = state.PreTax.Sub(conversion)
	state.Roth = state.Roth.Add(conversion)

	if state.Brokerage.GreaterThanOrEqual(tax) {
		state.Brokerage = state.Brokerage.Sub(tax)
	} else {
		shortfall := tax.Sub(state.Brokerage)
		state.Brokerage = decimal.Zero
		state.PreTax = state.PreTax.Sub(shortfall)
	}

	rec.Conversion = conversion
	rec.ConversionTax = tax
	rec.TaxRate = rate
}

// distribute takes the required distribution, taxes it, and deposits the
// after-tax remainder into brokerage.
func (ce *CalculationEngine) distribute(yc *yearContext, state *domain.AccountState, rec *domain.YearRecord, age, elapsed int) {
	withdrawal := CalculateRMD(yc.schedule, state.PreTax, age)
	if withdrawal.IsZero() {
		return
	}
	rate := ce.Brackets.EffectiveRate(withdrawal, elapsed, yc.params.InflationRate)
	tax := withdrawal.Mul(rate)

	state.PreTax = state.PreTax.Sub(withdrawal)
	state.Brokerage = state.Brokerage.Add(withdrawal.Sub(tax))

	rec.RMD = withdrawal
	rec.RMDTax = tax
	rec.TaxRate = rate
}

// Contribution returns the employee deferral plus employer match for a year's salary.
// A zero MatchCap matches the full employee rate.
func Contribution(policy domain.ContributionPolicy, salary decimal.Decimal) decimal.Decimal {
	employee := salary.Mul(policy.EmployeeRate)
	matched := policy.EmployeeRate
	if policy.MatchCap.IsPositive() {
		matched = decimal.Min(policy.EmployeeRate, policy.MatchCap)
	}
	employer := salary.Mul(matched).Mul(policy.EmployerMatch)
	return employee.Add(employer)
}

// FinalBalance runs the strategy without a trace and returns only the final total.
func (ce *CalculationEngine) FinalBalance(params domain.SimulationParameters, strategy domain.Strategy, policies domain.Policies) (decimal.Decimal, error) {
	res, err := ce.Simulate(params, strategy, policies, false)
	if err != nil {
		return decimal.Zero, err
	}
	return res.FinalBalance, nil
}
