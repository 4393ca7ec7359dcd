package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/timedorder/config"
	"github.com/rustyeddy/timedorder/engine"
	"github.com/rustyeddy/timedorder/market"
	"github.com/rustyeddy/timedorder/trigger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage timed-order configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  timedorder config init -o order.yaml
  timedorder config validate -f order.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  timedorder config init -o order.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check a configuration file against the same rules the run command
applies at startup, using the current clock.

Example:
  timedorder config validate -f order.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "order.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.Trigger.At = time.Now().Add(time.Hour).Truncate(time.Minute)
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  timedorder run -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	inst := market.Instruments[cfg.Instrument]
	if err := cfg.Validate(now, inst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	due := cfg.Trigger.Spec().DueTime(now)
	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Instrument: %s\n", cfg.Instrument)
	fmt.Printf("  Order: %s\n", cfg.Order.Type)
	if cfg.Trigger.Mode == trigger.Daily {
		fmt.Printf("  Trigger: daily %02d:%02d:%02d on %s\n",
			cfg.Trigger.Hour, cfg.Trigger.Minute, cfg.Trigger.Second, cfg.Trigger.Weekdays)
	} else {
		fmt.Printf("  Trigger: once at %s\n", cfg.Trigger.At.Format(time.RFC3339))
	}
	fmt.Printf("  Next trigger in %s\n", engine.TimeDistance(due.Sub(now)))
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
