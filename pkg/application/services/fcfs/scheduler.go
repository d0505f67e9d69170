// Package fcfs implements the greedy first-come-first-serve scheduler. Orders are planned
// in arrival order and every resource choice goes to whichever line, transporter or
// driver is expected to be free first.
package fcfs

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/application/services/planning"
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Name identifies the strategy in outcomes and configuration
const Name = "greedy"

// DefaultMaxTimeSteps bounds a run when no limit is configured
const DefaultMaxTimeSteps entities.TimeStep = 10000

// Options configures the greedy scheduler
type Options struct {
	MaxTimeSteps entities.TimeStep
	OrderLimit   int
	Planning     planning.Options
	Sink         simulation.LogSink
	Recorder     dto.TrialRecorder
}

// Candidate is a planned step set together with the orders it serves
type Candidate struct {
	Orders  []*entities.Order
	Steps   []*simulation.FactoryStep
	Skipped []string
	Builder *planning.Builder
}

// Plan expands orders in the given sequence on the factory arena. Orders that cannot
// be serviced are skipped and noted in the factory log.
func Plan(factory *simulation.Factory, orders []*entities.Order, policy planning.Policy, options planning.Options) *Candidate {
	b := planning.NewBuilder(factory, policy, options)
	c := &Candidate{Orders: orders, Builder: b}
	for _, o := range orders {
		if err := b.AddOrder(o); err != nil {
			c.Skipped = append(c.Skipped, o.OrderNr())
			factory.Note(fmt.Sprintf("skipping %v", err))
		}
	}
	c.Steps = b.Steps()
	return c
}

// Scheduler runs exactly one greedy simulation per Optimize call
type Scheduler struct {
	instance *simulation.Instance
	options  Options
}

// NewScheduler creates a greedy scheduler for an instance
func NewScheduler(instance *simulation.Instance, options Options) *Scheduler {
	if options.MaxTimeSteps <= 0 {
		options.MaxTimeSteps = DefaultMaxTimeSteps
	}
	return &Scheduler{instance: instance, options: options}
}

// Name returns the strategy name
func (s *Scheduler) Name() string { return Name }

// Optimize plans and simulates the greedy schedule. The trial budget is ignored since
// the greedy heuristic is deterministic.
func (s *Scheduler) Optimize(ctx context.Context, _ int) (*dto.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	arena := s.instance.Factory().Clone()
	arena.SetSink(s.options.Sink)
	orders := planning.LimitOrders(s.instance.Orders(), s.options.OrderLimit)

	candidate := Plan(arena, orders, planning.EarliestAvailable{}, s.options.Planning)
	result, err := arena.StartFactory(orders, candidate.Steps, s.options.MaxTimeSteps)
	if s.options.Recorder != nil {
		s.options.Recorder.RecordTrial(Name, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("greedy schedule: %w", err)
	}

	outcome := dto.NewOutcome(Name, result, candidate.Steps)
	outcome.SkippedOrders = candidate.Skipped
	outcome.Trials = 1
	outcome.Duration = time.Since(start)
	if s.options.Recorder != nil {
		s.options.Recorder.RecordOutcome(outcome)
	}
	return outcome, nil
}
