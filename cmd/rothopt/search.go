package main

import (
	"fmt"

	"github.com/rpgo/roth-optimizer/internal/calculation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the conversion start age and amount with the largest final balance",
	Long:  "Evaluates every (start age, annual amount) cell of the configured search grid, ranks them by final balance and compares the best one against never converting.",
	RunE:  runSearch,
}

var (
	searchConfigPath string
	searchTop        int
	searchWorkers    int
	searchFormat     string
	searchOut        string
)

func init() {
	searchCmd.Flags().StringVarP(&searchConfigPath, "config", "c", "", "Configuration file (defaults are used when omitted)")
	searchCmd.Flags().IntVar(&searchTop, "top", 0, "Number of ranked strategies to show (0 uses output.top_n)")
	searchCmd.Flags().IntVar(&searchWorkers, "workers", 0, "Concurrent simulations (0 uses GOMAXPROCS)")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "", "Output format (see 'rothopt formats')")
	searchCmd.Flags().StringVarP(&searchOut, "out", "o", "", "Write the report to this file instead of stdout")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	if searchTop < 0 {
		return fmt.Errorf("top must not be negative, got %d", searchTop)
	}
	if searchWorkers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", searchWorkers)
	}

	cfg, err := loadConfiguration(searchConfigPath)
	if err != nil {
		return err
	}
	topN := cfg.Output.TopN
	if cmd.Flags().Changed("top") {
		topN = searchTop
	}

	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logger.Sugar())
	searcher := &calculation.GridSearcher{Engine: engine, Workers: searchWorkers}

	logger.Info("searching conversion strategies",
		zap.Int("cells", cfg.Search.Size()),
		zap.Int("workers", searchWorkers))
	report, err := searcher.RunSearch(cmd.Context(), cfg.Search, cfg.Parameters, cfg.Policies, topN)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return writeReport(cmd.OutOrStdout(), report, firstNonEmpty(searchFormat, cfg.Output.Format), searchOut)
}
