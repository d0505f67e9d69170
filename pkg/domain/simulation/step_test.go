package simulation

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

func TestFactoryStep_PrecedenceViolation(t *testing.T) {
	f := NewFactory("plant", nil)
	plan := f.NewPlan()
	first := plan.Add(entities.NoAction, nil, 0, nil, 0)
	second := plan.Add(entities.NoAction, nil, 0, nil, 0, first)

	assert.False(t, second.AllPrerequisitesCompleted())
	err := second.Execute(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrecedenceViolation))
	assert.False(t, IsRecoverable(err))
	assert.False(t, second.Completed())

	require.NoError(t, first.Execute(0))
	assert.True(t, second.AllPrerequisitesCompleted())
	require.NoError(t, second.Execute(1))
	assert.Equal(t, entities.TimeStep(1), second.CompletedAt())

	assert.True(t, errors.Is(second.Execute(2), ErrInvalidStep), "completed steps never run again")
}

func TestPrecedenceGraph_DepthAndCycles(t *testing.T) {
	f := NewFactory("plant", nil)
	plan := f.NewPlan()
	a := plan.Add(entities.NoAction, nil, 0, nil, 0)
	b := plan.Add(entities.NoAction, nil, 0, nil, 0, a)
	c := plan.Add(entities.NoAction, nil, 0, nil, 0, a, b)
	d := plan.Add(entities.NoAction, nil, 0, nil, 0)

	g, err := NewPrecedenceGraph(plan.Steps())
	require.NoError(t, err)
	assert.Equal(t, 0, g.Depth(a))
	assert.Equal(t, 1, g.Depth(b))
	assert.Equal(t, 2, g.Depth(c))
	assert.Equal(t, 0, g.Depth(d))
	assert.ElementsMatch(t, []*FactoryStep{b, c}, g.Dependents(a))
	assert.Equal(t, []*FactoryStep{a, d, b, c}, g.DispatchOrder())

	a.After(c)
	_, err = NewPrecedenceGraph(plan.Steps())
	assert.True(t, errors.Is(err, ErrPrecedenceCycle))

	other := NewFactory("other", nil).NewPlan()
	x := other.Add(entities.NoAction, nil, 0, nil, 0)
	y := other.Add(entities.NoAction, nil, 0, nil, 0, x)
	_, err = NewPrecedenceGraph([]*FactoryStep{y})
	assert.True(t, errors.Is(err, ErrUnknownPrerequisite))
}

func TestFactory_RandomDAGsRespectPrecedence(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		f := NewFactory("plant", nil)
		plan := f.NewPlan()

		n := 5 + rng.Intn(40)
		steps := make([]*FactoryStep, n)
		for i := 0; i < n; i++ {
			var prereqs []*FactoryStep
			for j := 0; j < i; j++ {
				if rng.Intn(4) == 0 {
					prereqs = append(prereqs, steps[j])
				}
			}
			steps[i] = plan.Add(entities.NoAction, nil, 0, nil, entities.TimeStep(rng.Intn(6)), prereqs...)
		}
		shuffled := plan.Steps()
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		var completionOrder []string
		f.SetSink(LogSinkFunc(func(e LogEvent) {
			if e.Source == SourceStep && e.Completed {
				completionOrder = append(completionOrder, e.Message)
			}
		}))

		result, err := f.StartFactory(nil, shuffled, 100)
		require.NoError(t, err, "seed %d", seed)
		require.True(t, result.Completed, "seed %d", seed)

		position := make(map[string]int, len(completionOrder))
		for i, msg := range completionOrder {
			position[msg] = i
		}
		for _, s := range steps {
			assert.GreaterOrEqual(t, s.CompletedAt(), s.ScheduledAt())
			for _, p := range s.Prerequisites() {
				assert.Less(t, position[p.String()], position[s.String()], "seed %d: %s ran before %s", seed, s, p)
				assert.LessOrEqual(t, p.CompletedAt(), s.CompletedAt())
			}
		}
	}
}
