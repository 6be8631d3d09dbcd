package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RMDStartAge is the age at which required distributions begin and conversions stop.
const RMDStartAge = 73

// SimulationParameters holds the economic assumptions shared by every strategy run.
type SimulationParameters struct {
	Salary         decimal.Decimal `yaml:"salary" json:"salary"`
	SalaryGrowth   decimal.Decimal `yaml:"salary_growth" json:"salary_growth"`
	RetirementAge  int             `yaml:"retirement_age" json:"retirement_age" validate:"gte=0,lte=130"`
	StartAge       int             `yaml:"start_age" json:"start_age" validate:"gte=0,lte=130"`
	EndAge         int             `yaml:"end_age" json:"end_age" validate:"gte=0,lte=130"`
	CAGR           decimal.Decimal `yaml:"cagr" json:"cagr"`
	InitialCapital decimal.Decimal `yaml:"initial_capital" json:"initial_capital"`
	InflationRate  decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	CapitalGains   decimal.Decimal `yaml:"capital_gains_rate" json:"capital_gains_rate"`
}

// Years returns the number of simulated years, inclusive of both end points.
func (p SimulationParameters) Years() int {
	if p.EndAge < p.StartAge {
		return 0
	}
	return p.EndAge - p.StartAge + 1
}

// Strategy is a Roth conversion plan: convert AnnualAmount every year from StartAge
// until required distributions begin. The zero value never converts.
type Strategy struct {
	Convert      bool            `yaml:"convert" json:"convert"`
	StartAge     int             `yaml:"start_age" json:"start_age"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
}

// NeverConvert is the baseline strategy.
var NeverConvert = Strategy{}

// NewStrategy creates a conversion strategy.
func NewStrategy(startAge int, annualAmount decimal.Decimal) Strategy {
	return Strategy{Convert: true, StartAge: startAge, AnnualAmount: annualAmount}
}

// IsNever reports whether the strategy skips conversions entirely.
func (s Strategy) IsNever() bool { return !s.Convert }

// Converts reports whether a conversion happens at the given age.
func (s Strategy) Converts(age int) bool {
	return s.Convert && age >= s.StartAge && age < RMDStartAge
}

func (s Strategy) String() string {
	if s.IsNever() {
		return "never convert"
	}
	return fmt.Sprintf("convert $%s/yr from age %d", s.AnnualAmount.StringFixed(0), s.StartAge)
}

// RMDPolicy selects how the required distribution percentage is looked up.
type RMDPolicy string

const (
	// RMDExactAge uses the percentage table for ages 73-100 and stops afterwards.
	RMDExactAge RMDPolicy = "exact_age"
	// RMDUniformDivisor uses Uniform Lifetime divisors through 120 and beyond.
	RMDUniformDivisor RMDPolicy = "uniform_divisor"
)

// WaterfallPolicy names the order in which accounts fund living expenses.
type WaterfallPolicy string

const (
	WaterfallBrokerageRothPreTax WaterfallPolicy = "brokerage_roth_pretax"
	WaterfallBrokeragePreTaxRoth WaterfallPolicy = "brokerage_pretax_roth"
)

// ContributionPolicy adds payroll contributions to the pre-tax account while working.
type ContributionPolicy struct {
	Enabled       bool            `yaml:"enabled" json:"enabled"`
	EmployeeRate  decimal.Decimal `yaml:"employee_rate" json:"employee_rate"`
	EmployerMatch decimal.Decimal `yaml:"employer_match" json:"employer_match"` // fraction of matched pay
	MatchCap      decimal.Decimal `yaml:"match_cap" json:"match_cap"`           // max employee rate matched
}

// ExpensePolicy funds an inflation-indexed living expense from retirement onward.
type ExpensePolicy struct {
	Enabled      bool            `yaml:"enabled" json:"enabled"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	Waterfall    WaterfallPolicy `yaml:"waterfall" json:"waterfall"`
}

// Policies toggles optional engine behavior. The zero value reproduces the
// plain conversion-versus-RMD model.
type Policies struct {
	RMD           RMDPolicy          `yaml:"rmd" json:"rmd"`
	Contributions ContributionPolicy `yaml:"contributions" json:"contributions"`
	Expenses      ExpensePolicy      `yaml:"expenses" json:"expenses"`
}

// RMDPolicyOrDefault returns the configured RMD policy, defaulting to exact age lookup.
func (p Policies) RMDPolicyOrDefault() RMDPolicy {
	if p.RMD == "" {
		return RMDExactAge
	}
	return p.RMD
}

// WaterfallOrDefault returns the configured waterfall, defaulting to brokerage, Roth, pre-tax.
func (e ExpensePolicy) WaterfallOrDefault() WaterfallPolicy {
	if e.Waterfall == "" {
		return WaterfallBrokerageRothPreTax
	}
	return e.Waterfall
}

// SearchGrid describes the conversion start ages and amounts to enumerate.
type SearchGrid struct {
	AgeMin     int             `yaml:"age_min" json:"age_min"`
	AgeMax     int             `yaml:"age_max" json:"age_max"`
	AmountMin  decimal.Decimal `yaml:"amount_min" json:"amount_min"`
	AmountMax  decimal.Decimal `yaml:"amount_max" json:"amount_max"`
	AmountStep decimal.Decimal `yaml:"amount_step" json:"amount_step"`
}

// Amounts enumerates AmountMin, AmountMin+Step, ... up to and including AmountMax.
func (g SearchGrid) Amounts() []decimal.Decimal {
	if !g.AmountStep.IsPositive() || g.AmountMin.GreaterThan(g.AmountMax) {
		return nil
	}
	var out []decimal.Decimal
	for a := g.AmountMin; a.LessThanOrEqual(g.AmountMax); a = a.Add(g.AmountStep) {
		out = append(out, a)
	}
	return out
}

// Size returns the number of cells in the grid.
func (g SearchGrid) Size() int {
	if g.AgeMax < g.AgeMin {
		return 0
	}
	return (g.AgeMax - g.AgeMin + 1) * len(g.Amounts())
}
