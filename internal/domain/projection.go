package domain

import (
	"github.com/shopspring/decimal"
)

// Phase identifies which yearly transition the engine applied.
type Phase string

const (
	PhaseGrowth       Phase = "growth"
	PhaseConversion   Phase = "conversion"
	PhaseDistribution Phase = "distribution"
)

// AccountState holds the three modeled balances for a single simulation run.
type AccountState struct {
	PreTax    decimal.Decimal `yaml:"pre_tax" json:"pre_tax"`
	Roth      decimal.Decimal `yaml:"roth" json:"roth"`
	Brokerage decimal.Decimal `yaml:"brokerage" json:"brokerage"`
}

// Total returns the sum of all three accounts.
func (a AccountState) Total() decimal.Decimal {
	return a.PreTax.Add(a.Roth).Add(a.Brokerage)
}

// YearRecord is the end-of-year snapshot for one simulated age.
type YearRecord struct {
	Age   int   `yaml:"age" json:"age"`
	Phase Phase `yaml:"phase" json:"phase"`

	Salary decimal.Decimal `yaml:"salary" json:"salary"`

	// Balances (end of year, after growth)
	PreTax    decimal.Decimal `yaml:"pre_tax" json:"pre_tax"`
	Roth      decimal.Decimal `yaml:"roth" json:"roth"`
	Brokerage decimal.Decimal `yaml:"brokerage" json:"brokerage"`
	Total     decimal.Decimal `yaml:"total" json:"total"`

	// Flows during the year
	Conversion    decimal.Decimal `yaml:"conversion" json:"conversion"`
	ConversionTax decimal.Decimal `yaml:"conversion_tax" json:"conversion_tax"`
	TaxRate       decimal.Decimal `yaml:"tax_rate" json:"tax_rate"`
	RMD           decimal.Decimal `yaml:"rmd" json:"rmd"`
	RMDTax        decimal.Decimal `yaml:"rmd_tax" json:"rmd_tax"`
	Contributed   decimal.Decimal `yaml:"contributed" json:"contributed"`
	Withdrawn     decimal.Decimal `yaml:"withdrawn" json:"withdrawn"`
	WithdrawalTax decimal.Decimal `yaml:"withdrawal_tax" json:"withdrawal_tax"`
	Unfunded      decimal.Decimal `yaml:"unfunded" json:"unfunded"`
}

// TaxesPaid returns every tax the engine charged during the year.
func (y YearRecord) TaxesPaid() decimal.Decimal {
	return y.ConversionTax.Add(y.RMDTax).Add(y.WithdrawalTax)
}

// SimulationResult is the outcome of one engine run.
type SimulationResult struct {
	Strategy     Strategy        `yaml:"strategy" json:"strategy"`
	FinalBalance decimal.Decimal `yaml:"final_balance" json:"final_balance"`
	Final        AccountState    `yaml:"final_accounts" json:"final_accounts"`
	Trace        []YearRecord    `yaml:"trace,omitempty" json:"trace,omitempty"`
}

// Balances returns the end-of-year totals from the trace, one per age.
func (r *SimulationResult) Balances() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Trace))
	for i, y := range r.Trace {
		out[i] = y.Total
	}
	return out
}

// TotalTaxes returns the taxes paid across the whole trace.
func (r *SimulationResult) TotalTaxes() decimal.Decimal {
	total := decimal.Zero
	for _, y := range r.Trace {
		total = total.Add(y.TaxesPaid())
	}
	return total
}

// SpreadPoint is the relative advantage of a strategy over the baseline for one age.
type SpreadPoint struct {
	Age       int             `yaml:"age" json:"age"`
	Strategy  decimal.Decimal `yaml:"strategy" json:"strategy"`
	Baseline  decimal.Decimal `yaml:"baseline" json:"baseline"`
	SpreadPct decimal.Decimal `yaml:"spread_pct" json:"spread_pct"`
}

// Comparison pairs a strategy run with the never-convert baseline.
type Comparison struct {
	Parameters SimulationParameters `yaml:"parameters" json:"parameters"`
	Policies   Policies             `yaml:"policies" json:"policies"`
	Result     SimulationResult     `yaml:"result" json:"result"`
	Baseline   SimulationResult     `yaml:"baseline" json:"baseline"`
	Spread     []SpreadPoint        `yaml:"spread" json:"spread"`
	FinalDelta decimal.Decimal      `yaml:"final_delta" json:"final_delta"`
}

// Beats reports whether the strategy ends with more than the baseline.
func (c *Comparison) Beats() bool {
	return c.FinalDelta.IsPositive()
}

// GridCell is one evaluated (strategy, final balance) pair.
type GridCell struct {
	Strategy     Strategy        `yaml:"strategy" json:"strategy"`
	FinalBalance decimal.Decimal `yaml:"final_balance" json:"final_balance"`
}

// GridSearchResult holds every evaluated cell ranked by final balance, best first.
type GridSearchResult struct {
	Grid  SearchGrid `yaml:"grid" json:"grid"`
	Cells []GridCell `yaml:"cells" json:"cells"`
}

// Best returns the top-ranked cell, or false when the grid was empty.
func (g *GridSearchResult) Best() (GridCell, bool) {
	if len(g.Cells) == 0 {
		return GridCell{}, false
	}
	return g.Cells[0], true
}

// Top returns up to n leading cells.
func (g *GridSearchResult) Top(n int) []GridCell {
	if n <= 0 || n > len(g.Cells) {
		n = len(g.Cells)
	}
	return g.Cells[:n]
}

// Report is the full result handed to output formatters.
type Report struct {
	Mode       string            `yaml:"mode" json:"mode"` // "simulate" or "search"
	Comparison *Comparison       `yaml:"comparison" json:"comparison"`
	Search     *GridSearchResult `yaml:"search,omitempty" json:"search,omitempty"`
	TopN       int               `yaml:"top_n,omitempty" json:"top_n,omitempty"`
}

// Report modes.
const (
	ModeSimulate = "simulate"
	ModeSearch   = "search"
)
