package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Configuration represents the complete input configuration
type Configuration struct {
	Parameters SimulationParameters `yaml:"parameters" json:"parameters"`
	Strategy   Strategy             `yaml:"strategy" json:"strategy"`
	Search     SearchGrid           `yaml:"search" json:"search"`
	Policies   Policies             `yaml:"policies" json:"policies"`
	Rotation   RotationSettings     `yaml:"rotation" json:"rotation"`
	Output     OutputSettings       `yaml:"output" json:"output"`
}

// RotationSettings configures the basket rotation trader.
type RotationSettings struct {
	DryRun        bool             `yaml:"dry_run" json:"dry_run"`
	WindowSeconds int              `yaml:"window_seconds" json:"window_seconds" validate:"gte=1,lte=60"`
	CashFraction  decimal.Decimal  `yaml:"cash_fraction" json:"cash_fraction"` // share of account cash deployed per buy
	LimitMarkup   decimal.Decimal  `yaml:"limit_markup" json:"limit_markup"`   // limit price premium over last trade
	Baskets       []BasketSettings `yaml:"baskets,omitempty" json:"baskets,omitempty" validate:"dive"`
}

// BasketSettings overrides one of the built-in baskets.
type BasketSettings struct {
	Name          string            `yaml:"name" json:"name" validate:"required"`
	ExtendedHours bool              `yaml:"extended_hours" json:"extended_hours"`
	Holdings      []HoldingSettings `yaml:"holdings" json:"holdings" validate:"required,min=1,dive"`
}

// HoldingSettings is one symbol and its target weight.
type HoldingSettings struct {
	Symbol string          `yaml:"symbol" json:"symbol" validate:"required,uppercase"`
	Weight decimal.Decimal `yaml:"weight" json:"weight"`
}

// OutputSettings holds report defaults that command-line flags may override.
type OutputSettings struct {
	Format string `yaml:"format" json:"format"`
	TopN   int    `yaml:"top_n" json:"top_n" validate:"gte=0"`
}

// Assumptions renders the modeling assumptions from actual parameter values.
func (p SimulationParameters) Assumptions() []string {
	pct := func(d decimal.Decimal) float64 { return d.Mul(decimal.NewFromInt(100)).InexactFloat64() }
	return []string{
		fmt.Sprintf("Investment growth (all accounts): %.1f%% annually", pct(p.CAGR)),
		fmt.Sprintf("Salary growth until retirement at %d: %.1f%% annually", p.RetirementAge, pct(p.SalaryGrowth)),
		fmt.Sprintf("Tax bracket indexing: %.1f%% annually", pct(p.InflationRate)),
		fmt.Sprintf("Capital gains drag on brokerage growth: %.1f%%", pct(p.CapitalGains)),
		fmt.Sprintf("Conversions stop and RMDs begin at age %d", RMDStartAge),
		"Federal brackets only; no state tax, deductions or credits",
	}
}
