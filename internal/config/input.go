package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpgo/roth-optimizer/internal/calculation"
	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// explicitAges records which default-relative ages a file set itself.
type explicitAges struct {
	Strategy struct {
		StartAge *int `yaml:"start_age"`
	} `yaml:"strategy"`
	Search struct {
		AgeMin *int `yaml:"age_min"`
	} `yaml:"search"`
}

// Parse decodes YAML over the defaults and validates the result. Default
// conversion ages the file leaves unset are raised to the simulation start
// age so that moving only parameters.start_age stays valid.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	config := CreateExampleConfiguration()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var set explicitAges
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	start := config.Parameters.StartAge
	if set.Search.AgeMin == nil && config.Search.AgeMin < start {
		config.Search.AgeMin = start
	}
	if set.Strategy.StartAge == nil && config.Strategy.StartAge < start {
		config.Strategy.StartAge = start
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid fields: %s", describeFieldErrors(verrs))
		}
		return err
	}

	if err := ip.validateParameters(&config.Parameters); err != nil {
		return fmt.Errorf("parameters validation failed: %w", err)
	}
	if err := ip.validateStrategy(&config.Strategy, &config.Parameters); err != nil {
		return fmt.Errorf("strategy validation failed: %w", err)
	}
	if err := calculation.ValidateGrid(config.Search, config.Parameters); err != nil {
		return fmt.Errorf("search validation failed: %w", err)
	}
	if err := ip.validatePolicies(&config.Policies); err != nil {
		return fmt.Errorf("policies validation failed: %w", err)
	}
	if err := ip.validateRotation(&config.Rotation); err != nil {
		return fmt.Errorf("rotation validation failed: %w", err)
	}

	return nil
}

func describeFieldErrors(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// validateParameters checks the cross-field constraints on the economic inputs
func (ip *InputParser) validateParameters(p *domain.SimulationParameters) error {
	if p.StartAge > p.RetirementAge {
		return fmt.Errorf("start age %d cannot be after retirement age %d", p.StartAge, p.RetirementAge)
	}
	if p.RetirementAge > p.EndAge {
		return fmt.Errorf("retirement age %d cannot be after end age %d", p.RetirementAge, p.EndAge)
	}
	if p.Salary.IsNegative() {
		return fmt.Errorf("salary cannot be negative")
	}
	if p.InitialCapital.IsNegative() {
		return fmt.Errorf("initial capital cannot be negative")
	}
	if p.SalaryGrowth.IsNegative() {
		return fmt.Errorf("salary growth cannot be negative")
	}
	if p.CAGR.IsNegative() {
		return fmt.Errorf("cagr cannot be negative")
	}
	if p.InflationRate.IsNegative() {
		return fmt.Errorf("inflation rate cannot be negative")
	}
	if p.CapitalGains.IsNegative() || p.CapitalGains.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("capital gains rate must be between 0 and 1")
	}
	return nil
}

// validateStrategy checks the manual strategy used by the simulate command
func (ip *InputParser) validateStrategy(s *domain.Strategy, p *domain.SimulationParameters) error {
	if s.IsNever() {
		return nil
	}
	if s.AnnualAmount.IsNegative() {
		return fmt.Errorf("annual amount cannot be negative")
	}
	if s.StartAge < p.StartAge || s.StartAge >= domain.RMDStartAge {
		return fmt.Errorf("start age %d must be between %d and %d", s.StartAge, p.StartAge, domain.RMDStartAge-1)
	}
	return nil
}

// validatePolicies checks the optional engine behaviors
func (ip *InputParser) validatePolicies(p *domain.Policies) error {
	switch p.RMDPolicyOrDefault() {
	case domain.RMDExactAge, domain.RMDUniformDivisor:
	default:
		return fmt.Errorf("rmd policy must be '%s' or '%s'", domain.RMDExactAge, domain.RMDUniformDivisor)
	}

	if c := p.Contributions; c.Enabled {
		if c.EmployeeRate.IsNegative() || c.EmployeeRate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("contributions.employee_rate must be between 0 and 1")
		}
		if c.EmployerMatch.IsNegative() {
			return fmt.Errorf("contributions.employer_match cannot be negative")
		}
		if c.MatchCap.IsNegative() {
			return fmt.Errorf("contributions.match_cap cannot be negative")
		}
	}

	if e := p.Expenses; e.Enabled {
		if !e.AnnualAmount.IsPositive() {
			return fmt.Errorf("expenses.annual_amount must be positive")
		}
		switch e.WaterfallOrDefault() {
		case domain.WaterfallBrokerageRothPreTax, domain.WaterfallBrokeragePreTaxRoth:
		default:
			return fmt.Errorf("expenses.waterfall must be '%s' or '%s'", domain.WaterfallBrokerageRothPreTax, domain.WaterfallBrokeragePreTaxRoth)
		}
	}
	return nil
}

// validateRotation checks the trader settings and any basket overrides
func (ip *InputParser) validateRotation(r *domain.RotationSettings) error {
	if !r.CashFraction.IsPositive() || r.CashFraction.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("cash_fraction must be in (0, 1]")
	}
	if r.LimitMarkup.IsNegative() {
		return fmt.Errorf("limit_markup cannot be negative")
	}
	for _, b := range r.Baskets {
		total := decimal.Zero
		for _, h := range b.Holdings {
			if !h.Weight.IsPositive() {
				return fmt.Errorf("basket %s: weight for %s must be positive", b.Name, h.Symbol)
			}
			total = total.Add(h.Weight)
		}
		if total.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("basket %s: weights sum to %s, more than 1", b.Name, total)
		}
	}
	return nil
}

// CreateExampleConfiguration returns the default configuration
func CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Parameters: domain.SimulationParameters{
			Salary:         decimal.NewFromInt(250000),
			SalaryGrowth:   decimal.NewFromFloat(0.03),
			RetirementAge:  65,
			StartAge:       49,
			EndAge:         100,
			CAGR:           decimal.NewFromFloat(0.10),
			InitialCapital: decimal.NewFromInt(1000000),
			InflationRate:  decimal.NewFromFloat(0.025),
			CapitalGains:   decimal.Zero,
		},
		Strategy: domain.NewStrategy(55, decimal.NewFromInt(118000)),
		Search: domain.SearchGrid{
			AgeMin:     49,
			AgeMax:     72,
			AmountMin:  decimal.NewFromInt(10000),
			AmountMax:  decimal.NewFromInt(500000),
			AmountStep: decimal.NewFromInt(10000),
		},
		Policies: domain.Policies{
			RMD: domain.RMDExactAge,
		},
		Rotation: domain.RotationSettings{
			WindowSeconds: 5,
			CashFraction:  decimal.NewFromFloat(0.99),
			LimitMarkup:   decimal.NewFromFloat(0.005),
		},
		Output: domain.OutputSettings{
			Format: "console",
			TopN:   10,
		},
	}
}
