package main

import (
	"fmt"

	"github.com/rpgo/roth-optimizer/internal/calculation"
	"github.com/rpgo/roth-optimizer/internal/config"
	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project one conversion strategy against never converting",
	Long:  "Runs the year-by-year projection for a single strategy (start age and annual conversion amount) and for the never-convert baseline, then reports both with the per-year spread.",
	RunE:  runSimulate,
}

var (
	simConfigPath string
	simStartAge   int
	simAmount     string
	simNever      bool
	simFormat     string
	simOut        string
)

func init() {
	simulateCmd.Flags().StringVarP(&simConfigPath, "config", "c", "", "Configuration file (defaults are used when omitted)")
	simulateCmd.Flags().IntVar(&simStartAge, "start-age", 0, "Age of the first conversion")
	simulateCmd.Flags().StringVar(&simAmount, "amount", "", "Annual conversion amount")
	simulateCmd.Flags().BoolVar(&simNever, "never", false, "Simulate the never-convert baseline only")
	simulateCmd.Flags().StringVarP(&simFormat, "format", "f", "", "Output format (see 'rothopt formats')")
	simulateCmd.Flags().StringVarP(&simOut, "out", "o", "", "Write the report to this file instead of stdout")

	simulateCmd.MarkFlagsMutuallyExclusive("never", "start-age")
	simulateCmd.MarkFlagsMutuallyExclusive("never", "amount")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfiguration(simConfigPath)
	if err != nil {
		return err
	}

	switch {
	case simNever:
		cfg.Strategy = domain.NeverConvert
	case cmd.Flags().Changed("start-age") || cmd.Flags().Changed("amount"):
		if cfg.Strategy.IsNever() {
			cfg.Strategy = domain.NewStrategy(cfg.Strategy.StartAge, cfg.Strategy.AnnualAmount)
		}
		if cmd.Flags().Changed("start-age") {
			cfg.Strategy.StartAge = simStartAge
		}
		if cmd.Flags().Changed("amount") {
			amount, err := decimal.NewFromString(simAmount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", simAmount, err)
			}
			cfg.Strategy.AnnualAmount = amount
		}
		if err := config.NewInputParser().ValidateConfiguration(cfg); err != nil {
			return err
		}
	}

	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logger.Sugar())
	engine.Debug = verbose

	logger.Info("simulating strategy", zap.Stringer("strategy", cfg.Strategy))
	report, err := engine.RunSimulation(cfg.Parameters, cfg.Strategy, cfg.Policies)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	return writeReport(cmd.OutOrStdout(), report, firstNonEmpty(simFormat, cfg.Output.Format), simOut)
}
