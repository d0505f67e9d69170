package simulation

import (
	"fmt"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// FactoryStep is one schedulable unit of work. It becomes eligible once every
// prerequisite is completed and, once completed, stays completed until the owning
// factory is reset.
type FactoryStep struct {
	factory       *Factory
	seq           int
	prerequisites []*FactoryStep
	item          entities.Item
	amount        entities.Quantity
	resource      Resource
	kind          entities.StepKind
	scheduledAt   entities.TimeStep
	driver        *Driver

	depth       int
	completed   bool
	completedAt entities.TimeStep
}

func (s *FactoryStep) Factory() *Factory              { return s.factory }
func (s *FactoryStep) Seq() int                       { return s.seq }
func (s *FactoryStep) Item() entities.Item            { return s.item }
func (s *FactoryStep) Amount() entities.Quantity      { return s.amount }
func (s *FactoryStep) Resource() Resource             { return s.resource }
func (s *FactoryStep) Kind() entities.StepKind        { return s.kind }
func (s *FactoryStep) ScheduledAt() entities.TimeStep { return s.scheduledAt }
func (s *FactoryStep) Driver() *Driver                { return s.driver }
func (s *FactoryStep) Completed() bool                { return s.completed }
func (s *FactoryStep) CompletedAt() entities.TimeStep { return s.completedAt }

// Depth is the length of the longest prerequisite chain, set when the step set is installed
func (s *FactoryStep) Depth() int { return s.depth }

// Prerequisites returns the steps that must complete first
func (s *FactoryStep) Prerequisites() []*FactoryStep {
	return append([]*FactoryStep(nil), s.prerequisites...)
}

// ResourceName returns the assigned resource name, or "factory" for unassigned steps
func (s *FactoryStep) ResourceName() string {
	if s.resource == nil {
		return "factory"
	}
	return s.resource.Name()
}

// After adds prerequisites
func (s *FactoryStep) After(prerequisites ...*FactoryStep) *FactoryStep {
	for _, p := range prerequisites {
		if p != nil && p != s {
			s.prerequisites = append(s.prerequisites, p)
		}
	}
	return s
}

// WithDriver pins the step to a driver instead of the first available one
func (s *FactoryStep) WithDriver(d *Driver) *FactoryStep {
	s.driver = d
	return s
}

// AllPrerequisitesCompleted reports whether the step is eligible
func (s *FactoryStep) AllPrerequisitesCompleted() bool {
	for _, p := range s.prerequisites {
		if !p.completed {
			return false
		}
	}
	return true
}

// Execute performs the step's work at time now
func (s *FactoryStep) Execute(now entities.TimeStep) error {
	if s.completed {
		return fmt.Errorf("%w: step %d already completed", ErrInvalidStep, s.seq)
	}
	if !s.AllPrerequisitesCompleted() {
		return fmt.Errorf("%w: step %d (%s) has pending prerequisites", ErrPrecedenceViolation, s.seq, s.kind)
	}

	var err error
	switch {
	case s.resource != nil:
		err = s.resource.PerformWork(now, s)
	case s.kind == entities.NoAction:
	default:
		err = s.factory.performDirect(now, s)
	}
	if err != nil {
		return err
	}

	s.completed = true
	s.completedAt = now
	s.factory.emit(LogEvent{
		TimeStep:  now,
		Source:    SourceStep,
		Resource:  s.ResourceName(),
		Message:   s.String(),
		Completed: true,
	})
	return nil
}

func (s *FactoryStep) String() string {
	id := "-"
	if s.item != nil {
		id = s.item.ID()
	}
	return fmt.Sprintf("#%d %s %d x %s @%d", s.seq, s.kind, s.amount, id, s.scheduledAt)
}

func (s *FactoryStep) reset() {
	s.completed = false
	s.completedAt = 0
}

// Plan collects the steps of one candidate schedule for a factory. Steps are
// numbered in insertion order.
type Plan struct {
	factory *Factory
	steps   []*FactoryStep
}

// NewPlan starts an empty plan on the factory
func (f *Factory) NewPlan() *Plan {
	return &Plan{factory: f}
}

// Add appends a step. A nil resource means the factory performs the step itself
// (customer pickup and order closing) or, for NoAction, nothing at all.
func (p *Plan) Add(kind entities.StepKind, item entities.Item, amount entities.Quantity, resource Resource, scheduledAt entities.TimeStep, prerequisites ...*FactoryStep) *FactoryStep {
	step := &FactoryStep{
		factory:     p.factory,
		seq:         len(p.steps),
		item:        item,
		amount:      amount,
		resource:    resource,
		kind:        kind,
		scheduledAt: scheduledAt,
	}
	step.After(prerequisites...)
	p.steps = append(p.steps, step)
	return step
}

// Steps returns the planned steps in insertion order
func (p *Plan) Steps() []*FactoryStep {
	return append([]*FactoryStep(nil), p.steps...)
}

// Len returns the number of planned steps
func (p *Plan) Len() int { return len(p.steps) }

// Truncate drops every step added after the first n
func (p *Plan) Truncate(n int) {
	if n < len(p.steps) {
		p.steps = p.steps[:n]
	}
}
