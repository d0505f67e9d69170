// Package criticalpath explains a finished schedule: for every closed order it follows
// the prerequisite that finished last back to the first step, which is the chain of
// steps that bounded the order's completion.
package criticalpath

import (
	"sort"

	"github.com/vsinha/factorysim/pkg/application/dto"
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Path is the binding chain of one order, first step first
type Path struct {
	OrderNr        string            `json:"order_nr"`
	CompletionTime entities.TimeStep `json:"completion_time"`
	Steps          []dto.StepSummary `json:"steps"`
	// Span runs from the planned start of the first step to the completion
	Span entities.TimeStep `json:"span"`
}

// Analysis holds the binding chains sorted by completion time, latest first
type Analysis struct {
	CriticalPath Path   `json:"critical_path"`
	TopPaths     []Path `json:"top_paths"`
	TotalPaths   int    `json:"total_paths"`
}

// Analyzer performs critical path analysis on executed plans
type Analyzer struct{}

// NewAnalyzer creates a new critical path analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze finds the binding chain of every closed order and returns the top N
func (a *Analyzer) Analyze(steps []*simulation.FactoryStep, topN int) *Analysis {
	var paths []Path
	for _, s := range steps {
		if s.Kind() != entities.CloseOrder || !s.Completed() {
			continue
		}
		paths = append(paths, a.trace(s))
	}

	analysis := &Analysis{TotalPaths: len(paths)}
	if len(paths) == 0 {
		return analysis
	}

	// Primary sort: completion time, then chain length, then order number
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].CompletionTime != paths[j].CompletionTime {
			return paths[i].CompletionTime > paths[j].CompletionTime
		}
		if len(paths[i].Steps) != len(paths[j].Steps) {
			return len(paths[i].Steps) > len(paths[j].Steps)
		}
		return paths[i].OrderNr < paths[j].OrderNr
	})

	if topN > 0 && len(paths) > topN {
		paths = paths[:topN]
	}
	analysis.CriticalPath = paths[0]
	analysis.TopPaths = paths
	return analysis
}

// trace walks from a close step to the root, always through the prerequisite that
// completed last
func (a *Analyzer) trace(closeStep *simulation.FactoryStep) Path {
	var chain []*simulation.FactoryStep
	for s := closeStep; s != nil; s = bindingPrerequisite(s) {
		chain = append(chain, s)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	path := Path{
		CompletionTime: closeStep.CompletedAt(),
		Steps:          dto.SummarizeSteps(chain),
	}
	if closeStep.Item() != nil {
		path.OrderNr = closeStep.Item().ID()
	}
	if len(chain) > 0 {
		path.Span = path.CompletionTime - chain[0].ScheduledAt()
	}
	return path
}

func bindingPrerequisite(s *simulation.FactoryStep) *simulation.FactoryStep {
	var binding *simulation.FactoryStep
	for _, p := range s.Prerequisites() {
		if !p.Completed() {
			continue
		}
		if binding == nil || p.CompletedAt() > binding.CompletedAt() ||
			(p.CompletedAt() == binding.CompletedAt() && p.Seq() > binding.Seq()) {
			binding = p
		}
	}
	return binding
}
