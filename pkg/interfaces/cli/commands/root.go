package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsinha/factorysim/pkg/infrastructure/config"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath   string
	verbose      bool
	dataSource   string
	dataFormat   string
	outputFormat string
	outputDir    string
}

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "factorysim",
		Short: "Factory order fulfillment simulator and scheduler",
		Long: `factorysim loads a factory (production lines, transporters, drivers, warehouse)
and a list of customer orders, then searches for the most profitable schedule.

Examples:
  factorysim validate --data ./plant
  factorysim optimize --data ./plant --strategy exhaustive --trials 500
  factorysim compare --data plant.yaml --data-format yaml --output-format json
  factorysim generate --out ./generated --products 8 --orders 5`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.configPath)
			if err != nil {
				return err
			}
			applyGlobalFlags(cmd, flags, cfg)
			if err := config.ValidateConfig(cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.cfg = cfg
			a.verbose = flags.verbose
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.dataSource, "data", "", "Instance directory (csv) or file (yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.dataFormat, "data-format", "", "Instance format: csv, yaml")
	rootCmd.PersistentFlags().StringVar(&flags.outputFormat, "output-format", "", "Output format: text, json, csv")
	rootCmd.PersistentFlags().StringVar(&flags.outputDir, "output", "", "Output directory for results")

	rootCmd.AddCommand(NewOptimizeCommand(a))
	rootCmd.AddCommand(NewCompareCommand(a))
	rootCmd.AddCommand(NewValidateCommand(a))
	rootCmd.AddCommand(NewGenerateCommand(a))

	return rootCmd
}

func applyGlobalFlags(cmd *cobra.Command, flags *globalFlags, cfg *config.Config) {
	if cmd.Flags().Changed("data") {
		cfg.Data.Source = flags.dataSource
	}
	if cmd.Flags().Changed("data-format") {
		cfg.Data.Format = flags.dataFormat
	}
	if cmd.Flags().Changed("output-format") {
		cfg.Output.Format = flags.outputFormat
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir = flags.outputDir
	}
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
