// Package enumerated implements the exhaustive/randomized scheduler. Trial 0 replays
// the greedy candidate; every further trial draws an order sequence, production lines,
// transporters and a driver pairing from an RNG seeded with seed plus the trial index,
// so results do not depend on how trials are spread over workers.
package enumerated

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/application/services/fcfs"
	"github.com/vsinha/factorysim/pkg/application/services/planning"
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Name identifies the strategy in outcomes and configuration
const Name = "exhaustive"

// ErrNoFeasibleSchedule is returned when every trial failed fatally
var ErrNoFeasibleSchedule = errors.New("no feasible schedule")

// Options configures the search
type Options struct {
	MaxTimeSteps entities.TimeStep
	OrderLimit   int
	Workers      int
	Seed         int64
	Planning     planning.Options
	// Sink receives the event stream of the winning trial's replay
	Sink     simulation.LogSink
	Recorder dto.TrialRecorder
}

// Searcher runs a budget of independent trials and keeps the most profitable one
type Searcher struct {
	instance *simulation.Instance
	options  Options
}

// NewSearcher creates a searcher for an instance
func NewSearcher(instance *simulation.Instance, options Options) *Searcher {
	if options.MaxTimeSteps <= 0 {
		options.MaxTimeSteps = fcfs.DefaultMaxTimeSteps
	}
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	return &Searcher{instance: instance, options: options}
}

// Name returns the strategy name
func (s *Searcher) Name() string { return Name }

type trial struct {
	index   int
	orders  []*entities.Order
	steps   []*simulation.FactoryStep
	skipped []string
	result  *simulation.RunResult
	err     error
}

// better reports whether t beats best: strictly higher income, or equal income from
// an earlier trial
func (t *trial) better(best *trial) bool {
	if best == nil {
		return true
	}
	if cmp := t.result.Income.Cmp(best.result.Income); cmp != 0 {
		return cmp > 0
	}
	return t.index < best.index
}

// Optimize runs up to trialBudget trials. Cancelling ctx stops issuing new trials;
// trials already running finish and count.
func (s *Searcher) Optimize(ctx context.Context, trialBudget int) (*dto.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if trialBudget < 1 {
		trialBudget = 1
	}
	start := time.Now()
	orders := planning.LimitOrders(s.instance.Orders(), s.options.OrderLimit)
	seq := newSequencer(orders, trialBudget-1)

	var (
		mu     sync.Mutex
		best   *trial
		trials int
		failed int
	)

	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for t := 0; t < trialBudget; t++ {
			select {
			case <-gctx.Done():
				return nil
			case jobs <- t:
			}
		}
		return nil
	})

	for w := 0; w < min(s.options.Workers, trialBudget); w++ {
		arena := s.instance.Factory().Clone()
		arena.SetLogSettings(simulation.LogSettings{})
		g.Go(func() error {
			for t := range jobs {
				r := s.runTrial(arena, t, orders, seq)

				mu.Lock()
				trials++
				if r.err != nil {
					failed++
				} else if r.better(best) {
					best = r
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if best == nil {
		if trials == 0 {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: all %d trials failed", ErrNoFeasibleSchedule, trials)
	}

	outcome, err := s.replay(best)
	if err != nil {
		return nil, err
	}
	outcome.Trials = trials
	outcome.FailedTrials = failed
	outcome.Duration = time.Since(start)
	if s.options.Recorder != nil {
		s.options.Recorder.RecordOutcome(outcome)
	}
	return outcome, nil
}

// runTrial plans and simulates trial t on a worker's arena
func (s *Searcher) runTrial(arena *simulation.Factory, t int, orders []*entities.Order, seq *sequencer) *trial {
	began := time.Now()

	var policy planning.Policy = planning.EarliestAvailable{}
	sequence := orders
	if t > 0 {
		rng := rand.New(rand.NewSource(s.options.Seed + int64(t)))
		sequence = seq.sequence(t, rng)
		policy = newRandomPolicy(rng, arena)
	}

	candidate := fcfs.Plan(arena, sequence, policy, s.options.Planning)
	result, err := arena.StartFactory(sequence, candidate.Steps, s.options.MaxTimeSteps)
	if s.options.Recorder != nil {
		s.options.Recorder.RecordTrial(Name, time.Since(began), err)
	}
	return &trial{
		index:   t,
		orders:  sequence,
		steps:   candidate.Steps,
		skipped: candidate.Skipped,
		result:  result,
		err:     err,
	}
}

// replay runs the winning step set again on a fresh arena wired to the sink, so the
// outcome carries a complete schedule and the sink sees the winning event stream
func (s *Searcher) replay(best *trial) (*dto.Outcome, error) {
	arena := s.instance.Factory().Clone()
	arena.SetSink(s.options.Sink)

	steps, err := arena.Rebind(best.steps)
	if err != nil {
		return nil, fmt.Errorf("replaying trial %d: %w", best.index, err)
	}
	result, err := arena.StartFactory(best.orders, steps, s.options.MaxTimeSteps)
	if err != nil {
		return nil, fmt.Errorf("replaying trial %d: %w", best.index, err)
	}

	outcome := dto.NewOutcome(Name, result, steps)
	outcome.TrialIndex = best.index
	outcome.SkippedOrders = best.skipped
	return outcome, nil
}
