package simulation

import (
	"fmt"
	"sort"
)

// PrecedenceGraph is the adjacency structure of one step set with memoized depths
type PrecedenceGraph struct {
	steps      []*FactoryStep
	index      map[*FactoryStep]int
	depth      []int
	dependents [][]int
}

// NewPrecedenceGraph indexes the step set, computes depths and rejects cycles and
// prerequisites outside the set
func NewPrecedenceGraph(steps []*FactoryStep) (*PrecedenceGraph, error) {
	g := &PrecedenceGraph{
		steps:      steps,
		index:      make(map[*FactoryStep]int, len(steps)),
		depth:      make([]int, len(steps)),
		dependents: make([][]int, len(steps)),
	}

	for i, s := range steps {
		if s == nil {
			return nil, fmt.Errorf("%w: nil step at position %d", ErrInvalidStep, i)
		}
		if _, dup := g.index[s]; dup {
			return nil, fmt.Errorf("%w: step %d listed twice", ErrInvalidStep, s.seq)
		}
		g.index[s] = i
	}

	for i, s := range steps {
		for _, p := range s.prerequisites {
			j, ok := g.index[p]
			if !ok {
				return nil, fmt.Errorf("%w: step %d depends on step %d", ErrUnknownPrerequisite, s.seq, p.seq)
			}
			g.dependents[j] = append(g.dependents[j], i)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(steps))
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: through step %d", ErrPrecedenceCycle, steps[i].seq)
		}
		state[i] = visiting
		d := 0
		for _, p := range steps[i].prerequisites {
			j := g.index[p]
			if err := visit(j); err != nil {
				return err
			}
			if g.depth[j]+1 > d {
				d = g.depth[j] + 1
			}
		}
		g.depth[i] = d
		state[i] = done
		return nil
	}
	for i := range steps {
		if err := visit(i); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Len returns the number of steps
func (g *PrecedenceGraph) Len() int { return len(g.steps) }

// Depth returns the memoized depth of a step, or -1 if it is not in the graph
func (g *PrecedenceGraph) Depth(s *FactoryStep) int {
	i, ok := g.index[s]
	if !ok {
		return -1
	}
	return g.depth[i]
}

// Dependents returns the steps that list s as a prerequisite
func (g *PrecedenceGraph) Dependents(s *FactoryStep) []*FactoryStep {
	i, ok := g.index[s]
	if !ok {
		return nil
	}
	result := make([]*FactoryStep, len(g.dependents[i]))
	for k, j := range g.dependents[i] {
		result[k] = g.steps[j]
	}
	return result
}

// DispatchOrder returns the steps sorted by scheduled time, then depth, then insertion order
func (g *PrecedenceGraph) DispatchOrder() []*FactoryStep {
	order := make([]int, len(g.steps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := g.steps[order[a]], g.steps[order[b]]
		if sa.scheduledAt != sb.scheduledAt {
			return sa.scheduledAt < sb.scheduledAt
		}
		if g.depth[order[a]] != g.depth[order[b]] {
			return g.depth[order[a]] < g.depth[order[b]]
		}
		return order[a] < order[b]
	})

	result := make([]*FactoryStep, len(order))
	for k, i := range order {
		result[k] = g.steps[i]
	}
	return result
}
