package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpgo/roth-optimizer/internal/rotation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Run the daily ETF basket rotation",
	Long:  "Liquidates all positions at the open and before the close, buying the intraday basket after the open and the after-hours basket before the close (US/Eastern). Reads ALPACA_API_KEY, ALPACA_SECRET_KEY and ALPACA_BASE_URL from the environment or a .env file. Runs until interrupted.",
	RunE:  runRotate,
}

var (
	rotateConfigPath string
	rotateDryRun     bool
)

func init() {
	rotateCmd.Flags().StringVarP(&rotateConfigPath, "config", "c", "", "Configuration file (defaults are used when omitted)")
	rotateCmd.Flags().BoolVar(&rotateDryRun, "dry-run", false, "Log planned orders without submitting them")

	rootCmd.AddCommand(rotateCmd)
}

func runRotate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfiguration(rotateConfigPath)
	if err != nil {
		return err
	}

	alpacaBroker, err := rotation.NewAlpacaBrokerFromEnv()
	if err != nil {
		return fmt.Errorf("failed to create broker: %w", err)
	}

	var broker rotation.Broker = alpacaBroker
	dryRun := rotateDryRun || cfg.Rotation.DryRun
	if dryRun {
		broker = rotation.NewDryRunBroker(alpacaBroker, logger)
	}

	trader, err := rotation.NewTrader(broker, cfg.Rotation, logger.Named("rotation"))
	if err != nil {
		return err
	}

	logger.Info("rotation trader ready", zap.Bool("dry_run", dryRun), zap.Int("window_seconds", cfg.Rotation.WindowSeconds))
	if err := trader.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
