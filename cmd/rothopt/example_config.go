package main

import (
	"fmt"

	"github.com/rpgo/roth-optimizer/internal/config"
	"github.com/rpgo/roth-optimizer/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config",
	Short: "Print or write the default configuration",
	RunE:  runExampleConfig,
}

var exampleConfigOut string

func init() {
	exampleConfigCmd.Flags().StringVarP(&exampleConfigOut, "out", "o", "", "Write the configuration to this file instead of stdout")

	rootCmd.AddCommand(exampleConfigCmd)
}

func runExampleConfig(cmd *cobra.Command, _ []string) error {
	cfg := config.CreateExampleConfiguration()
	if exampleConfigOut != "" {
		if err := output.SaveConfiguration(cfg, exampleConfigOut); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", exampleConfigOut)
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
