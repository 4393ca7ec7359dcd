package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timedorder",
	Short: "Place a single order at a scheduled time, with retries and gates",
	Long: `Timedorder waits for a configured trigger time and then places one order,
market or pending, with bounded retries and market-condition gates.

It provides:
  - One-shot or daily recurring triggers on selected weekdays
  - Spread and price-difference gates before submission
  - Fixed or risk-based position sizing with venue volume clamps
  - Stop-loss and take-profit as levels, distances, ATR or spread multiples
  - Trade journaling to CSV or SQLite and email alerts on the outcome

Complete documentation is available at https://github.com/rustyeddy/timedorder`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
