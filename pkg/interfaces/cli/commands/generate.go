package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/factorysim/pkg/application/services/generator"
	csvrepo "github.com/vsinha/factorysim/pkg/infrastructure/repositories/csv"
	yamlrepo "github.com/vsinha/factorysim/pkg/infrastructure/repositories/yaml"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand(a *app) *cobra.Command {
	config := generator.DefaultConfig()
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random instance as CSV files or a YAML document",
		Long: `Generate a random but feasible instance: a layered process tree over raw
materials, production lines running one process per product, trucks and vans, and
orders for top level products. Equal seeds generate equal instances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			if a.verbose {
				fmt.Fprintf(stdout, "Generating %d materials, %d products (depth %d), %d orders with seed %d\n",
					config.Materials, config.Products, config.MaxDepth, config.Orders, config.Seed)
			}
			g, err := generator.New(config)
			if err != nil {
				return err
			}
			inst, err := g.Generate()
			if err != nil {
				return fmt.Errorf("failed to generate instance: %w", err)
			}

			switch format {
			case "yaml":
				err = yamlrepo.Save(inst, out)
			case "csv":
				err = csvrepo.Save(inst, out)
			default:
				err = fmt.Errorf("unsupported instance format: %s", format)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "Instance written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output directory (csv) or file (yaml)")
	cmd.Flags().StringVar(&format, "format", "csv", "Instance format: csv, yaml")
	cmd.Flags().StringVar(&config.Name, "name", config.Name, "Factory name")
	cmd.Flags().IntVar(&config.Materials, "materials", config.Materials, "Number of raw materials")
	cmd.Flags().IntVar(&config.Products, "products", config.Products, "Number of products")
	cmd.Flags().IntVar(&config.MaxDepth, "depth", config.MaxDepth, "Maximum depth of the process tree")
	cmd.Flags().IntVar(&config.Productions, "productions", config.Productions, "Number of production lines")
	cmd.Flags().IntVar(&config.Transporters, "transporters", config.Transporters, "Number of transporters")
	cmd.Flags().IntVar(&config.Drivers, "drivers", config.Drivers, "Number of drivers (yaml only)")
	cmd.Flags().IntVar(&config.Orders, "orders", config.Orders, "Number of orders")
	cmd.Flags().Int64Var(&config.WarehouseCapacity, "capacity", config.WarehouseCapacity, "Warehouse capacity, -1 for unlimited (yaml only)")
	cmd.Flags().Int64Var(&config.Seed, "seed", config.Seed, "Random seed")

	return cmd
}
