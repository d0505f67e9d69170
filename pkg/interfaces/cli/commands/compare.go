package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/factorysim/pkg/application/services/optimizer"
	"github.com/vsinha/factorysim/pkg/interfaces/cli/output"
)

// NewCompareCommand creates the compare command
func NewCompareCommand(a *app) *cobra.Command {
	flags := &schedulerFlags{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run both schedulers on one instance and compare their income",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a)
			stdout := cmd.OutOrStdout()
			ctx := cmd.Context()

			inst, err := a.loadInstance(ctx)
			if err != nil {
				return err
			}
			s, err := a.newSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			comparison, err := optimizer.Compare(ctx, inst, a.optimizerOptions(s), a.cfg.Optimizer.Trials)
			if closeErr := a.close(s, stdout); err == nil {
				err = closeErr
			}
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			if err := output.GenerateComparison(comparison, a.outputConfig(stdout)); err != nil {
				return err
			}
			if err := a.writeGantt(comparison.Exhaustive, stdout); err != nil {
				return err
			}
			return a.writeGantt(comparison.Greedy, stdout)
		},
	}

	flags.register(cmd, false)
	return cmd
}
