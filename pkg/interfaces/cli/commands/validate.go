package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/factorysim/pkg/domain/services"
)

// NewValidateCommand creates the validate command
func NewValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check an instance for cycles, duplicates and unreachable items",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			inst, err := a.loadInstance(cmd.Context())
			if err != nil {
				return err
			}

			f := inst.Factory()
			result := services.NewCatalogValidator().Validate(f, inst.Orders())
			fmt.Fprintf(stdout, "Instance %s (%s)\n", f.Name(), inst.Fingerprint()[:12])
			fmt.Fprintf(stdout, "  Materials:    %d\n", len(f.Materials()))
			fmt.Fprintf(stdout, "  Products:     %d\n", len(f.Products()))
			fmt.Fprintf(stdout, "  Productions:  %d\n", len(f.Productions()))
			fmt.Fprintf(stdout, "  Transporters: %d\n", len(f.Transporters()))
			fmt.Fprintf(stdout, "  Drivers:      %d\n", len(f.Drivers()))
			fmt.Fprintf(stdout, "  Orders:       %d\n", len(inst.Orders()))

			for _, w := range result.Warnings {
				fmt.Fprintf(stdout, "warning: %s\n", w)
			}
			if !result.Valid() {
				return fmt.Errorf("instance is invalid: %v", result.Errors)
			}
			fmt.Fprintln(stdout, "Instance is valid")
			return nil
		},
	}
}
