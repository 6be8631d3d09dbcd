package calculation

import (
	"strings"
	"testing"

	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const refTol = 1e-9

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// smallParams is a short retirement-only horizon that is easy to check by hand.
func smallParams() domain.SimulationParameters {
	return domain.SimulationParameters{
		Salary:         decimal.Zero,
		SalaryGrowth:   decimal.Zero,
		RetirementAge:  65,
		StartAge:       70,
		EndAge:         75,
		CAGR:           d(0.05),
		InitialCapital: decimal.NewFromInt(100000),
		InflationRate:  decimal.Zero,
		CapitalGains:   decimal.Zero,
	}
}

func mustContext(t *testing.T, params domain.SimulationParameters, strategy domain.Strategy, policies domain.Policies) yearContext {
	t.Helper()
	yc, err := newYearContext(params, strategy, policies)
	require.NoError(t, err)
	return yc
}

func TestSimulate_NeverConvertReference(t *testing.T) {
	ce := NewCalculationEngine()
	res, err := ce.Simulate(defaultParams(), domain.NeverConvert, domain.Policies{}, true)
	require.NoError(t, err)

	assertRelClose(t, 119189816.2139530629, res.FinalBalance, refTol, "final balance")
	assertRelClose(t, 14363167.3943606522, res.Final.PreTax, refTol, "final pre-tax")
	assertRelClose(t, 104826648.8195924163, res.Final.Brokerage, refTol, "final brokerage")
	assert.True(t, res.Final.Roth.IsZero())

	require.Len(t, res.Trace, 52)
	at73 := res.Trace[73-49]
	assert.Equal(t, 73, at73.Age)
	assert.Equal(t, domain.PhaseDistribution, at73.Phase)
	assertRelClose(t, 10426237.529322654, at73.PreTax, refTol, "pre-tax at 73")
	assertRelClose(t, 353654.1309319107, at73.Brokerage, refTol, "brokerage at 73")
}

func TestSimulate_ConversionReference(t *testing.T) {
	ce := NewCalculationEngine()
	res, err := ce.Simulate(defaultParams(), domain.NewStrategy(55, decimal.NewFromInt(100000)), domain.Policies{}, false)
	require.NoError(t, err)

	assertRelClose(t, 124155361.3000954092, res.FinalBalance, refTol, "final balance")
	assertRelClose(t, 5936973.0646578064, res.Final.PreTax, refTol, "final pre-tax")
	assertRelClose(t, 72334392.2872599959, res.Final.Roth, refTol, "final roth")
	assertRelClose(t, 45883995.9481775984, res.Final.Brokerage, refTol, "final brokerage")
	assert.Nil(t, res.Trace)
}

func TestSimulate_CapitalGainsDrag(t *testing.T) {
	params := defaultParams()
	params.CapitalGains = d(0.15)
	ce := NewCalculationEngine()

	never, err := ce.FinalBalance(params, domain.NeverConvert, domain.Policies{})
	require.NoError(t, err)
	assertRelClose(t, 98979319.4032184631, never, refTol, "never convert")

	conv, err := ce.FinalBalance(params, domain.NewStrategy(55, decimal.NewFromInt(100000)), domain.Policies{})
	require.NoError(t, err)
	assertRelClose(t, 115330576.4339351803, conv, refTol, "convert from 55")
}

func TestSimulate_SmallScenario(t *testing.T) {
	ce := NewCalculationEngine()
	res, err := ce.Simulate(smallParams(), domain.NewStrategy(70, decimal.NewFromInt(50000)), domain.Policies{}, true)
	require.NoError(t, err)
	require.Len(t, res.Trace, 6)

	want := []float64{99567.3, 99482.4852, 104456.60946, 109679.439933, 115163.41192965, 120921.5825261326}
	for i, total := range want {
		assertRelClose(t, total, res.Trace[i].Total, 1e-12, "total at age %d", 70+i)
	}

	// A tax shortfall at 71 drives pre-tax below zero, and the next
	// conversion moves that negative balance back out of Roth.
	y71 := res.Trace[1]
	assertRelClose(t, -5063.1798, y71.PreTax, 1e-12, "pre-tax at 71")
	assertRelClose(t, 104545.665, y71.Roth, 1e-12, "roth at 71")

	y72 := res.Trace[2]
	assert.Equal(t, domain.PhaseConversion, y72.Phase)
	assertRelClose(t, -5063.1798, y72.Conversion, 1e-12, "conversion at 72")
	assert.True(t, y72.ConversionTax.IsZero())
	assert.True(t, y72.PreTax.IsZero())

	for _, y := range res.Trace[3:] {
		assert.Equal(t, domain.PhaseDistribution, y.Phase)
		assert.True(t, y.RMD.IsZero(), "no RMD on an empty pre-tax account at %d", y.Age)
	}
}

func TestSimulate_SmallScenarioNeverConvert(t *testing.T) {
	ce := NewCalculationEngine()
	res, err := ce.Simulate(smallParams(), domain.NeverConvert, domain.Policies{}, true)
	require.NoError(t, err)

	assertRelClose(t, 105000, res.Trace[0].Total, 1e-12, "age 70")
	assertRelClose(t, 110250, res.Trace[1].Total, 1e-12, "age 71")
	assertRelClose(t, 115762.5, res.Trace[2].Total, 1e-12, "age 72")
	assertRelClose(t, 116968.16643750001, res.Trace[3].PreTax, 1e-12, "pre-tax at 73")
	assertRelClose(t, 4124.21270625, res.Trace[3].Brokerage, 1e-12, "brokerage at 73")
	assertRelClose(t, 118859.45075774181, res.Trace[5].PreTax, 1e-12, "pre-tax at 75")
	assertRelClose(t, 13635.101974282396, res.Trace[5].Brokerage, 1e-12, "brokerage at 75")
}

func TestSimulate_StartAtOrAfterRMDAgeMatchesNever(t *testing.T) {
	ce := NewCalculationEngine()
	params := defaultParams()

	never, err := ce.FinalBalance(params, domain.NeverConvert, domain.Policies{})
	require.NoError(t, err)

	for _, start := range []int{73, 80} {
		got, err := ce.FinalBalance(params, domain.NewStrategy(start, decimal.NewFromInt(100000)), domain.Policies{})
		require.NoError(t, err)
		assert.True(t, got.Equal(never), "start %d: %s != %s", start, got, never)
	}
}

func TestSimulate_ZeroAmountMatchesNever(t *testing.T) {
	ce := NewCalculationEngine()
	params := defaultParams()

	never, err := ce.FinalBalance(params, domain.NeverConvert, domain.Policies{})
	require.NoError(t, err)
	zero, err := ce.FinalBalance(params, domain.NewStrategy(55, decimal.Zero), domain.Policies{})
	require.NoError(t, err)
	assert.True(t, zero.Equal(never))
}

func TestSimulate_SalaryTiming(t *testing.T) {
	ce := NewCalculationEngine()
	res, err := ce.Simulate(defaultParams(), domain.NeverConvert, domain.Policies{}, true)
	require.NoError(t, err)

	salary := func(age int) decimal.Decimal { return res.Trace[age-49].Salary }

	// The first year's raise is skipped; growth then runs until retirement.
	assert.True(t, salary(49).Equal(decimal.NewFromInt(250000)))
	assert.True(t, salary(50).Equal(decimal.NewFromInt(250000)))
	assertRelClose(t, 257500, salary(51), 1e-15, "salary at 51")
	assertRelClose(t, 250000*pow(1.03, 15), salary(65), 1e-12, "salary at 65")
	assert.True(t, salary(66).Equal(salary(65)))
	assert.True(t, salary(80).Equal(salary(65)))
}

func TestSimulate_Contributions(t *testing.T) {
	policies := domain.Policies{Contributions: domain.ContributionPolicy{
		Enabled:       true,
		EmployeeRate:  d(0.10),
		EmployerMatch: d(0.5),
		MatchCap:      d(0.06),
	}}
	ce := NewCalculationEngine()
	res, err := ce.Simulate(defaultParams(), domain.NeverConvert, policies, true)
	require.NoError(t, err)

	assertRelClose(t, 154479206.591747, res.FinalBalance, refTol, "final balance")
	assert.True(t, res.Trace[0].Contributed.Equal(decimal.NewFromInt(32500)), "got %s", res.Trace[0].Contributed)
	assert.True(t, res.Trace[1].Contributed.Equal(decimal.NewFromInt(32500)), "got %s", res.Trace[1].Contributed)
	assert.True(t, res.Trace[65-49].Contributed.IsZero(), "no contributions once retired")
}

func TestContribution(t *testing.T) {
	salary := decimal.NewFromInt(100000)

	capped := Contribution(domain.ContributionPolicy{Enabled: true, EmployeeRate: d(0.10), EmployerMatch: d(1), MatchCap: d(0.04)}, salary)
	assert.True(t, capped.Equal(decimal.NewFromInt(14000)), "got %s", capped)

	uncapped := Contribution(domain.ContributionPolicy{Enabled: true, EmployeeRate: d(0.10), EmployerMatch: d(0.5)}, salary)
	assert.True(t, uncapped.Equal(decimal.NewFromInt(15000)), "got %s", uncapped)
}

func TestSimulate_UniformDivisorPolicy(t *testing.T) {
	ce := NewCalculationEngine()
	got, err := ce.FinalBalance(defaultParams(), domain.NeverConvert, domain.Policies{RMD: domain.RMDUniformDivisor})
	require.NoError(t, err)
	assertRelClose(t, 119190502.182668, got, refTol, "divisor policy")

	// Beyond 100 the exact table stops while divisors keep drawing.
	long := defaultParams()
	long.EndAge = 110
	exact, err := ce.FinalBalance(long, domain.NeverConvert, domain.Policies{})
	require.NoError(t, err)
	divisor, err := ce.FinalBalance(long, domain.NeverConvert, domain.Policies{RMD: domain.RMDUniformDivisor})
	require.NoError(t, err)
	assertRelClose(t, 309147687.125646, exact, refTol, "exact through 110")
	assertRelClose(t, 302599687.769180, divisor, refTol, "divisor through 110")
}

func TestSimulate_UnknownRMDPolicy(t *testing.T) {
	ce := NewCalculationEngine()
	_, err := ce.Simulate(defaultParams(), domain.NeverConvert, domain.Policies{RMD: "made_up"}, false)
	assert.Error(t, err)
}

func TestSimulate_NoDistributionAfterTable(t *testing.T) {
	long := defaultParams()
	long.EndAge = 103
	ce := NewCalculationEngine()
	res, err := ce.Simulate(long, domain.NeverConvert, domain.Policies{}, true)
	require.NoError(t, err)

	y100 := res.Trace[100-49]
	assert.True(t, y100.RMD.IsPositive())
	for _, y := range res.Trace[101-49:] {
		assert.True(t, y.RMD.IsZero(), "age %d", y.Age)
		assert.Equal(t, domain.PhaseDistribution, y.Phase)
	}
}

func TestConvert_TaxShortfallComesFromPreTax(t *testing.T) {
	params := smallParams()
	params.StartAge = 66
	params.EndAge = 70
	strategy := domain.NewStrategy(66, decimal.NewFromInt(100000))
	yc := mustContext(t, params, strategy, domain.Policies{})

	ce := NewCalculationEngine()
	state := domain.AccountState{PreTax: decimal.NewFromInt(30000), Roth: decimal.Zero, Brokerage: decimal.Zero}
	var rec domain.YearRecord
	ce.convert(&yc, &state, &rec, 0, false, decimal.Zero)

	assert.True(t, rec.Conversion.Equal(decimal.NewFromInt(30000)), "conversion capped at the balance")
	assert.True(t, rec.ConversionTax.Equal(decimal.NewFromInt(3000)), "got %s", rec.ConversionTax)
	assert.True(t, state.PreTax.Equal(decimal.NewFromInt(-3000)), "got %s", state.PreTax)
	assert.True(t, state.Roth.Equal(decimal.NewFromInt(30000)))
	assert.True(t, state.Brokerage.IsZero())
}

func TestConvert_BrokeragePaysFirst(t *testing.T) {
	params := smallParams()
	strategy := domain.NewStrategy(70, decimal.NewFromInt(41300))
	yc := mustContext(t, params, strategy, domain.Policies{})

	ce := NewCalculationEngine()
	state := domain.AccountState{PreTax: decimal.NewFromInt(100000), Roth: decimal.NewFromInt(5), Brokerage: decimal.NewFromInt(10000)}
	before := state.Total()
	var rec domain.YearRecord
	ce.convert(&yc, &state, &rec, 0, false, decimal.Zero)

	assert.True(t, state.Brokerage.Equal(decimal.NewFromInt(5870)), "got %s", state.Brokerage)
	assert.True(t, state.PreTax.Equal(decimal.NewFromInt(58700)))
	assert.True(t, state.Roth.Equal(decimal.NewFromInt(41305)))
	// Total drops by exactly the tax paid.
	assert.True(t, before.Sub(state.Total()).Equal(rec.ConversionTax))
}

func TestConvert_SalaryCountsWhileWorking(t *testing.T) {
	params := defaultParams()
	strategy := domain.NewStrategy(49, decimal.NewFromInt(100000))
	yc := mustContext(t, params, strategy, domain.Policies{})
	ce := NewCalculationEngine()

	working := domain.AccountState{PreTax: decimal.NewFromInt(1000000), Roth: decimal.Zero, Brokerage: decimal.Zero}
	var wrec domain.YearRecord
	ce.convert(&yc, &working, &wrec, 0, true, decimal.NewFromInt(250000))

	retired := domain.AccountState{PreTax: decimal.NewFromInt(1000000), Roth: decimal.Zero, Brokerage: decimal.Zero}
	var rrec domain.YearRecord
	ce.convert(&yc, &retired, &rrec, 0, false, decimal.NewFromInt(250000))

	assert.InDelta(t, EffectiveRate(decimal.NewFromInt(350000), 0, params.InflationRate).InexactFloat64(), wrec.TaxRate.InexactFloat64(), 1e-15)
	assert.InDelta(t, 0.11174, rrec.TaxRate.InexactFloat64(), 1e-15)
}

func TestStep_RequiredDistribution(t *testing.T) {
	params := smallParams()
	params.StartAge = 80
	params.EndAge = 85
	params.CAGR = decimal.Zero
	yc := mustContext(t, params, domain.NeverConvert, domain.Policies{})

	ce := NewCalculationEngine()
	state := domain.AccountState{PreTax: decimal.NewFromInt(1000000), Roth: decimal.Zero, Brokerage: decimal.Zero}
	rec := ce.step(&yc, &state, 80, decimal.Zero)

	assert.Equal(t, domain.PhaseDistribution, rec.Phase)
	assert.True(t, rec.RMD.Equal(decimal.NewFromInt(49500)), "got %s", rec.RMD)
	assert.InDelta(t, 0.10331313131313132, rec.TaxRate.InexactFloat64(), 1e-15)
	assert.InDelta(t, 5114, rec.RMDTax.InexactFloat64(), 1e-9)
	assert.InDelta(t, 44386, state.Brokerage.InexactFloat64(), 1e-9)
	assert.True(t, state.PreTax.Equal(decimal.NewFromInt(950500)))
}

func TestStep_GrowthAppliesAfterFlows(t *testing.T) {
	params := smallParams()
	params.CapitalGains = d(0.2)
	yc := mustContext(t, params, domain.NeverConvert, domain.Policies{})

	ce := NewCalculationEngine()
	state := domain.AccountState{PreTax: decimal.NewFromInt(1000), Roth: decimal.NewFromInt(2000), Brokerage: decimal.NewFromInt(4000)}
	rec := ce.step(&yc, &state, 71, decimal.Zero)

	assert.Equal(t, domain.PhaseGrowth, rec.Phase)
	assert.True(t, state.PreTax.Equal(decimal.NewFromInt(1050)))
	assert.True(t, state.Roth.Equal(decimal.NewFromInt(2100)))
	assert.True(t, state.Brokerage.Equal(decimal.NewFromInt(4160)), "brokerage grows at cagr*(1-cg), got %s", state.Brokerage)
	assert.True(t, rec.Total.Equal(decimal.NewFromInt(7310)))
}

func TestSimulate_DebugLogging(t *testing.T) {
	logger := &recordingLogger{}
	ce := NewCalculationEngine()
	ce.SetLogger(logger)
	ce.Debug = true

	_, err := ce.Simulate(smallParams(), domain.NeverConvert, domain.Policies{}, false)
	require.NoError(t, err)

	require.Len(t, logger.lines, 6)
	assert.True(t, strings.HasPrefix(logger.lines[0], "debug: age 70 [growth]"), logger.lines[0])
	assert.Contains(t, logger.lines[3], "[distribution]")
}

func TestSetLogger_NilFallsBackToNop(t *testing.T) {
	ce := NewCalculationEngine()
	ce.SetLogger(nil)
	assert.IsType(t, NopLogger{}, ce.Logger)
}

func pow(base float64, n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ {
		out *= base
	}
	return out
}
