package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Outcome contains the result of one scheduler run: the winning schedule and the
// counters of the search that produced it
type Outcome struct {
	RunID          uuid.UUID         `json:"run_id"`
	Strategy       string            `json:"strategy"`
	Income         decimal.Decimal   `json:"income"`
	CompletionTime entities.TimeStep `json:"completion_time"`
	Completed      bool              `json:"completed"`
	RemainingSteps int               `json:"remaining_steps"`
	Steps          []StepSummary     `json:"steps"`
	SkippedOrders  []string          `json:"skipped_orders,omitempty"`
	Trials         int               `json:"trials"`
	FailedTrials   int               `json:"failed_trials"`
	TrialIndex     int               `json:"trial_index"`
	Duration       time.Duration     `json:"duration"`

	// Plan holds the winning steps on the arena they ran on
	Plan []*simulation.FactoryStep `json:"-"`
}

// StepSummary is the flattened view of one executed step
type StepSummary struct {
	Seq         int               `json:"seq"`
	Kind        string            `json:"kind"`
	Item        string            `json:"item"`
	Amount      entities.Quantity `json:"amount"`
	Resource    string            `json:"resource"`
	Driver      string            `json:"driver,omitempty"`
	ScheduledAt entities.TimeStep `json:"scheduled_at"`
	CompletedAt entities.TimeStep `json:"completed_at"`
	Completed   bool              `json:"completed"`
}

// NewOutcome fills an outcome from a finished run
func NewOutcome(strategy string, result *simulation.RunResult, steps []*simulation.FactoryStep) *Outcome {
	return &Outcome{
		RunID:          uuid.New(),
		Strategy:       strategy,
		Income:         result.Income,
		CompletionTime: result.CompletionTime,
		Completed:      result.Completed,
		RemainingSteps: result.RemainingSteps,
		Steps:          SummarizeSteps(steps),
		Plan:           steps,
	}
}

// SummarizeSteps flattens steps in their given order
func SummarizeSteps(steps []*simulation.FactoryStep) []StepSummary {
	summaries := make([]StepSummary, 0, len(steps))
	for _, s := range steps {
		summary := StepSummary{
			Seq:         s.Seq(),
			Kind:        s.Kind().String(),
			Amount:      s.Amount(),
			Resource:    s.ResourceName(),
			ScheduledAt: s.ScheduledAt(),
			CompletedAt: s.CompletedAt(),
			Completed:   s.Completed(),
		}
		if s.Item() != nil {
			summary.Item = s.Item().ID()
		}
		if s.Driver() != nil {
			summary.Driver = s.Driver().ID()
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// Comparison pairs the outcomes of both schedulers on the same instance
type Comparison struct {
	Exhaustive *Outcome `json:"exhaustive"`
	Greedy     *Outcome `json:"greedy"`
}

// Best returns the outcome with the higher income; the exhaustive search wins ties
func (c *Comparison) Best() *Outcome {
	switch {
	case c.Exhaustive == nil:
		return c.Greedy
	case c.Greedy == nil:
		return c.Exhaustive
	case c.Greedy.Income.GreaterThan(c.Exhaustive.Income):
		return c.Greedy
	default:
		return c.Exhaustive
	}
}

// IncomeGap is the exhaustive income minus the greedy income
func (c *Comparison) IncomeGap() decimal.Decimal {
	if c.Exhaustive == nil || c.Greedy == nil {
		return decimal.Zero
	}
	return c.Exhaustive.Income.Sub(c.Greedy.Income)
}

// TrialRecorder observes scheduler trials, typically to export metrics
type TrialRecorder interface {
	RecordTrial(strategy string, duration time.Duration, err error)
	RecordOutcome(outcome *Outcome)
}
