package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/factorysim/pkg/application/services/criticalpath"
	"github.com/vsinha/factorysim/pkg/application/services/optimizer"
	"github.com/vsinha/factorysim/pkg/infrastructure/events"
	"github.com/vsinha/factorysim/pkg/interfaces/cli/output"
)

// schedulerFlags override the optimizer section of the configuration
type schedulerFlags struct {
	strategy     string
	trials       int
	seed         int64
	workers      int
	orderLimit   int
	maxTimeSteps int64
	gantt        bool
}

// analysisFlags request a critical path analysis of the winning schedule
type analysisFlags struct {
	criticalPath bool
	topPaths     int
}

func (f *schedulerFlags) register(cmd *cobra.Command, withStrategy bool) {
	if withStrategy {
		cmd.Flags().StringVar(&f.strategy, "strategy", "", "Scheduler: exhaustive, greedy")
	}
	cmd.Flags().IntVar(&f.trials, "trials", 0, "Trial budget of the exhaustive search")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed of the exhaustive search")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parallel trial workers (0 = number of CPUs)")
	cmd.Flags().IntVar(&f.orderLimit, "order-limit", 0, "Only schedule the first N orders (0 = all)")
	cmd.Flags().Int64Var(&f.maxTimeSteps, "max-time-steps", 0, "Time step bound of one run")
	cmd.Flags().BoolVar(&f.gantt, "gantt", false, "Write an SVG gantt chart of the schedule")
}

func (f *schedulerFlags) apply(cmd *cobra.Command, a *app) {
	cfg := a.cfg
	if cmd.Flags().Changed("strategy") {
		cfg.Optimizer.Strategy = f.strategy
	}
	if cmd.Flags().Changed("trials") {
		cfg.Optimizer.Trials = f.trials
	}
	if cmd.Flags().Changed("seed") {
		cfg.Optimizer.Seed = f.seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Optimizer.Workers = f.workers
	}
	if cmd.Flags().Changed("order-limit") {
		cfg.Optimizer.OrderLimit = f.orderLimit
	}
	if cmd.Flags().Changed("max-time-steps") {
		cfg.Simulation.MaxTimeSteps = f.maxTimeSteps
	}
	if cmd.Flags().Changed("gantt") {
		cfg.Output.Gantt = f.gantt
	}
}

// NewOptimizeCommand creates the optimize command
func NewOptimizeCommand(a *app) *cobra.Command {
	flags := &schedulerFlags{}
	analysis := &analysisFlags{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search the most profitable schedule for an instance",
		Long: `Load an instance and run the configured scheduler. The exhaustive search runs
a budget of randomized trials in parallel; the greedy scheduler plans orders first
come, first served.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a)
			stdout := cmd.OutOrStdout()
			ctx := cmd.Context()

			inst, err := a.loadInstance(ctx)
			if err != nil {
				return err
			}
			if a.verbose {
				fmt.Fprintf(stdout, "Loaded %s: %d orders, %d productions, %d transporters, %d drivers\n",
					inst.Factory().Name(), len(inst.Orders()), len(inst.Factory().Productions()),
					len(inst.Factory().Transporters()), len(inst.Factory().Drivers()))
			}

			s, err := a.newSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			strategy := a.cfg.Optimizer.Strategy
			opt, err := optimizer.New(strategy, inst, a.optimizerOptions(s))
			if err != nil {
				return err
			}
			_ = s.store.AppendEvent(s.runID.String(), events.NewRunStartedEvent(s.runID, opt.Name(), inst, a.cfg.Optimizer.Trials))

			outcome, err := opt.Optimize(ctx, a.cfg.Optimizer.Trials)
			if closeErr := a.close(s, stdout); err == nil {
				err = closeErr
			}
			if err != nil {
				return fmt.Errorf("%s scheduler failed: %w", strategy, err)
			}
			outcome.RunID = s.runID
			_ = s.store.AppendEvent(s.runID.String(), events.NewRunFinishedEvent(s.runID, outcome))

			if a.verbose {
				fmt.Fprintf(stdout, "Recorded %d events for run %s\n", s.store.Position(), s.runID)
			}
			if err := output.Generate(outcome, a.outputConfig(stdout)); err != nil {
				return err
			}
			if analysis.criticalPath {
				output.PrintCriticalPaths(stdout, criticalpath.NewAnalyzer().Analyze(outcome.Plan, analysis.topPaths))
			}
			return a.writeGantt(outcome, stdout)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().BoolVar(&analysis.criticalPath, "critical-path", false, "Print the binding step chain of the closed orders")
	cmd.Flags().IntVar(&analysis.topPaths, "top-paths", 3, "Number of critical paths to print")
	return cmd
}
