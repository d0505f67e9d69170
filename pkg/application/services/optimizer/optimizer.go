package optimizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/application/services/enumerated"
	"github.com/vsinha/factorysim/pkg/application/services/fcfs"
	"github.com/vsinha/factorysim/pkg/application/services/planning"
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Strategy names accepted by New
const (
	Exhaustive = enumerated.Name
	Greedy     = fcfs.Name
)

// ErrUnknownStrategy is returned by New for an unsupported strategy name
var ErrUnknownStrategy = errors.New("unknown strategy")

// Optimizer produces the most profitable schedule it can find for an instance
type Optimizer interface {
	Name() string
	Optimize(ctx context.Context, trialBudget int) (*dto.Outcome, error)
}

var (
	_ Optimizer = (*fcfs.Scheduler)(nil)
	_ Optimizer = (*enumerated.Searcher)(nil)
)

// Options are shared by both strategies; the greedy one ignores Workers and Seed
type Options struct {
	MaxTimeSteps entities.TimeStep
	OrderLimit   int
	Workers      int
	Seed         int64
	Planning     planning.Options
	Sink         simulation.LogSink
	Recorder     dto.TrialRecorder
}

// New selects a strategy by name
func New(kind string, instance *simulation.Instance, options Options) (Optimizer, error) {
	if instance == nil {
		return nil, fmt.Errorf("instance cannot be nil")
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case Exhaustive:
		return enumerated.NewSearcher(instance, enumerated.Options{
			MaxTimeSteps: options.MaxTimeSteps,
			OrderLimit:   options.OrderLimit,
			Workers:      options.Workers,
			Seed:         options.Seed,
			Planning:     options.Planning,
			Sink:         options.Sink,
			Recorder:     options.Recorder,
		}), nil
	case Greedy:
		return fcfs.NewScheduler(instance, fcfs.Options{
			MaxTimeSteps: options.MaxTimeSteps,
			OrderLimit:   options.OrderLimit,
			Planning:     options.Planning,
			Sink:         options.Sink,
			Recorder:     options.Recorder,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownStrategy, kind, Exhaustive, Greedy)
	}
}

// Compare runs both strategies on the same instance. Only the exhaustive search
// forwards its events to the sink.
func Compare(ctx context.Context, instance *simulation.Instance, options Options, trialBudget int) (*dto.Comparison, error) {
	exhaustive, err := New(Exhaustive, instance, options)
	if err != nil {
		return nil, err
	}
	greedyOptions := options
	greedyOptions.Sink = nil
	greedy, err := New(Greedy, instance, greedyOptions)
	if err != nil {
		return nil, err
	}

	comparison := &dto.Comparison{}
	if comparison.Greedy, err = greedy.Optimize(ctx, 1); err != nil {
		return nil, fmt.Errorf("%s: %w", Greedy, err)
	}
	if comparison.Exhaustive, err = exhaustive.Optimize(ctx, trialBudget); err != nil {
		return nil, fmt.Errorf("%s: %w", Exhaustive, err)
	}
	return comparison, nil
}
