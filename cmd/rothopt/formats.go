package main

import (
	"fmt"
	"strings"

	"github.com/rpgo/roth-optimizer/internal/output"
	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the available report formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "Formats:")
		for _, name := range output.AvailableFormatterNames() {
			fmt.Fprintf(w, "  %s\n", name)
		}
		fmt.Fprintf(w, "Aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
