package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// CatalogValidator checks a factory configuration for structural problems before
// any scheduler runs on it
type CatalogValidator struct{}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() *CatalogValidator {
	return &CatalogValidator{}
}

// ValidationResult contains the results of catalog validation. Errors make an
// instance unusable; warnings only mean some orders cannot be serviced.
type ValidationResult struct {
	HasCycles     bool
	CyclePaths    [][]string
	DuplicateIDs  []string
	Unproducible  []string
	Unreachable   []string
	Undeliverable []string
	Errors        []string
	Warnings      []string
}

// Valid reports whether no errors were found
func (r *ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Validate performs every check on a factory and its orders
func (v *CatalogValidator) Validate(factory *simulation.Factory, orders []*entities.Order) *ValidationResult {
	result := &ValidationResult{}

	result.CyclePaths = v.detectCycles(v.buildAdjacencyMap(factory))
	result.HasCycles = len(result.CyclePaths) > 0
	for _, cycle := range result.CyclePaths {
		result.Errors = append(result.Errors, fmt.Sprintf("process cycle detected: %v", cycle))
	}

	result.DuplicateIDs = v.detectDuplicateIDs(factory)
	if len(result.DuplicateIDs) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("duplicate item ids found: %v", result.DuplicateIDs))
	}

	for _, p := range factory.Products() {
		if len(factory.ProductionsFor(p)) == 0 {
			result.Unproducible = append(result.Unproducible, p.ID())
		}
	}
	if len(result.Unproducible) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("no production makes %v", result.Unproducible))
	}

	for _, m := range factory.Materials() {
		if len(factory.TransportersFor(m)) == 0 {
			result.Unreachable = append(result.Unreachable, m.ID())
		}
	}
	if len(result.Unreachable) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("no transporter can fetch %v", result.Unreachable))
	}

	if len(factory.Transporters()) > 0 {
		for _, o := range orders {
			if len(factory.TransportersFor(o)) == 0 {
				result.Undeliverable = append(result.Undeliverable, o.OrderNr())
			}
		}
	}
	if len(result.Undeliverable) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("no transporter can deliver orders %v", result.Undeliverable))
	}

	return result
}

// buildAdjacencyMap creates a map of output -> product input relationships
func (v *CatalogValidator) buildAdjacencyMap(factory *simulation.Factory) map[string][]string {
	adjacencyMap := make(map[string][]string)

	for _, line := range factory.Productions() {
		for _, process := range line.Processes() {
			parent := process.Output.ID()
			for _, in := range process.Inputs {
				if in.Item.Kind() != entities.ProductKind {
					continue
				}
				found := false
				for _, child := range adjacencyMap[parent] {
					if child == in.Item.ID() {
						found = true
						break
					}
				}
				if !found {
					adjacencyMap[parent] = append(adjacencyMap[parent], in.Item.ID())
				}
			}
		}
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles in the process structure
func (v *CatalogValidator) detectCycles(adjacencyMap map[string][]string) [][]string {
	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)
	var cycles [][]string

	parents := make([]string, 0, len(adjacencyMap))
	for parent := range adjacencyMap {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	for _, parent := range parents {
		if !visited[parent] {
			v.dfsDetectCycle(parent, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

func (v *CatalogValidator) dfsDetectCycle(
	current string,
	adjacencyMap map[string][]string,
	visited map[string]bool,
	recursionStack map[string]bool,
	path []string,
	cycles *[][]string,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if !visited[child] {
			v.dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			for i, id := range path {
				if id == child {
					cycle := append([]string(nil), path[i:]...)
					cycle = append(cycle, child)
					*cycles = append(*cycles, cycle)
					break
				}
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateIDs finds ids shared by more than one material or product
func (v *CatalogValidator) detectDuplicateIDs(factory *simulation.Factory) []string {
	seen := make(map[string]int)
	var duplicates []string

	var ids []string
	for _, m := range factory.Materials() {
		ids = append(ids, m.ID())
	}
	for _, p := range factory.Products() {
		ids = append(ids, p.ID())
	}
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			duplicates = append(duplicates, id)
		}
	}

	return duplicates
}
