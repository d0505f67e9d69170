package enumerated

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/application/services/fcfs"
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
	testhelpers "github.com/vsinha/factorysim/pkg/infrastructure/testing"
)

type countingRecorder struct {
	mu       sync.Mutex
	trials   int
	failed   int
	outcomes int
}

func (r *countingRecorder) RecordTrial(_ string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trials++
	if err != nil {
		r.failed++
	}
}

func (r *countingRecorder) RecordOutcome(*dto.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes++
}

func TestSearcher_SingleLine(t *testing.T) {
	inst := testhelpers.BuildSingleLineInstance()
	s := NewSearcher(inst, Options{MaxTimeSteps: 20, Workers: 2, Seed: 1})

	outcome, err := s.Optimize(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, Name, outcome.Strategy)
	assert.True(t, outcome.Completed)
	assert.Equal(t, entities.TimeStep(6), outcome.CompletionTime)
	assert.True(t, outcome.Income.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 10, outcome.Trials)
	assert.Zero(t, outcome.FailedTrials)
	assert.Equal(t, 0, outcome.TrialIndex, "equal incomes keep the earliest trial")
}

func TestSearcher_NeverWorseThanGreedy(t *testing.T) {
	inst := testhelpers.BuildAssemblyInstance()

	greedy, err := fcfs.NewScheduler(inst, fcfs.Options{MaxTimeSteps: 300}).Optimize(context.Background(), 1)
	require.NoError(t, err)

	for _, seed := range []int64{1, 7, 42} {
		outcome, err := NewSearcher(inst, Options{MaxTimeSteps: 300, Workers: 3, Seed: seed}).Optimize(context.Background(), 24)
		require.NoError(t, err)
		assert.True(t, outcome.Income.GreaterThanOrEqual(greedy.Income),
			"seed %d: exhaustive %s < greedy %s", seed, outcome.Income, greedy.Income)
	}
}

func TestSearcher_SingleTrialIsGreedy(t *testing.T) {
	inst := testhelpers.BuildAssemblyInstance()

	greedy, err := fcfs.NewScheduler(inst, fcfs.Options{MaxTimeSteps: 300}).Optimize(context.Background(), 1)
	require.NoError(t, err)
	outcome, err := NewSearcher(inst, Options{MaxTimeSteps: 300}).Optimize(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Trials)
	assert.True(t, outcome.Income.Equal(greedy.Income))
	assert.Equal(t, greedy.CompletionTime, outcome.CompletionTime)
	assert.Equal(t, len(greedy.Steps), len(outcome.Steps))
}

func TestSearcher_DeterministicAcrossWorkers(t *testing.T) {
	inst := testhelpers.BuildAssemblyInstance()

	run := func(workers int) *dto.Outcome {
		outcome, err := NewSearcher(inst, Options{MaxTimeSteps: 300, Workers: workers, Seed: 99}).Optimize(context.Background(), 20)
		require.NoError(t, err)
		return outcome
	}
	one, four := run(1), run(4)

	assert.Equal(t, one.TrialIndex, four.TrialIndex)
	assert.True(t, one.Income.Equal(four.Income))
	assert.Equal(t, one.CompletionTime, four.CompletionTime)
	assert.Equal(t, one.Steps, four.Steps)
}

func TestSearcher_UnserviceableOrdersAreSkipped(t *testing.T) {
	inst := testhelpers.BuildSeaFreightInstance()
	recorder := &countingRecorder{}

	outcome, err := NewSearcher(inst, Options{MaxTimeSteps: 50, Workers: 2, Recorder: recorder}).Optimize(context.Background(), 5)
	require.NoError(t, err)

	assert.True(t, outcome.Income.IsZero())
	assert.Equal(t, []string{"S-1"}, outcome.SkippedOrders)
	assert.Equal(t, 5, recorder.trials)
	assert.Zero(t, recorder.failed)
	assert.Equal(t, 1, recorder.outcomes)
}

func TestSearcher_ReplayFeedsSink(t *testing.T) {
	inst := testhelpers.BuildSingleLineInstance()
	var mu sync.Mutex
	var events []simulation.LogEvent
	sink := simulation.LogSinkFunc(func(e simulation.LogEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	_, err := NewSearcher(inst, Options{MaxTimeSteps: 20, Workers: 2, Sink: sink}).Optimize(context.Background(), 4)
	require.NoError(t, err)

	var completed int
	for _, e := range events {
		if e.Source == simulation.SourceStep && e.Completed {
			completed++
		}
	}
	assert.Equal(t, 14, completed, "only the winning replay reaches the sink")
}

func TestSearcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSearcher(testhelpers.BuildSingleLineInstance(), Options{}).Optimize(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSequencer(t *testing.T) {
	inst := testhelpers.BuildAssemblyInstance()
	orders := inst.Orders()

	count, ok := permutationCount(len(orders), 6)
	require.True(t, ok)
	assert.Equal(t, 6, count)
	_, ok = permutationCount(len(orders), 5)
	assert.False(t, ok)

	ids := func(seq []*entities.Order) string {
		var s string
		for _, o := range seq {
			s += o.ID()[2:]
		}
		return s
	}
	var got []string
	for k := 0; k < 6; k++ {
		got = append(got, ids(nthPermutation(orders, k)))
	}
	assert.Equal(t, []string{"123", "132", "213", "231", "312", "321"}, got)

	seq := newSequencer(orders, 10)
	assert.True(t, seq.exhaustive)
	assert.Equal(t, "123", ids(seq.sequence(1, nil)))
	assert.Equal(t, "123", ids(seq.sequence(7, nil)), "permutations wrap around")

	shuffled := newSequencer(orders, 3)
	assert.False(t, shuffled.exhaustive)
	assert.Len(t, shuffled.sequence(1, rand.New(rand.NewSource(1))), 3)
}

func TestRandomPolicy(t *testing.T) {
	inst := testhelpers.BuildAssemblyInstance()
	f := inst.Factory()
	transporters := f.Transporters()

	pool := driverPool(rand.New(rand.NewSource(3)), transporters, f.Drivers())
	assert.Len(t, pool, 2, "two drivers for three transporters")
	seen := map[string]bool{}
	for _, d := range pool {
		assert.False(t, seen[d.ID()], "driver %s paired twice", d.ID())
		seen[d.ID()] = true
	}

	p := &randomPolicy{rng: rand.New(rand.NewSource(5)), smallest: true}
	assert.Equal(t, "van", p.ChooseTransporter(transporters, 3, nil).Name())
	assert.Equal(t, "truck-small", p.ChooseTransporter(transporters, 4, nil).Name())
	assert.Equal(t, "truck-large", p.ChooseTransporter(transporters, 12, nil).Name())

	lines := f.ProductionsFor(f.Product("MOTOR"))
	require.Len(t, lines, 2)
	for i := 0; i < 10; i++ {
		assert.Contains(t, lines, p.ChooseProduction(lines, nil))
	}
}
