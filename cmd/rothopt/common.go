package main

import (
	"fmt"
	"io"

	"github.com/rpgo/roth-optimizer/internal/config"
	"github.com/rpgo/roth-optimizer/internal/domain"
	"github.com/rpgo/roth-optimizer/internal/output"
)

// loadConfiguration reads path, or returns the validated defaults when path
// is empty.
func loadConfiguration(path string) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	if path == "" {
		cfg := config.CreateExampleConfiguration()
		if err := parser.ValidateConfiguration(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("configuration loaded")
	return cfg, nil
}

// writeReport prints the report to w, or writes it to outPath when set.
func writeReport(w io.Writer, report *domain.Report, format, outPath string) error {
	if outPath == "" {
		return output.Render(w, report, format)
	}
	written, err := output.GenerateReport(report, format, outPath)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(w, "Report written to %s\n", written)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
