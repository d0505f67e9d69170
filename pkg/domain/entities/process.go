package entities

import "fmt"

// ProductionProcess turns one batch of inputs into BatchSize units of Output
type ProductionProcess struct {
	ID             string
	Inputs         []MaterialPosition
	Output         *Product
	ProductionTime TimeStep
	BatchSize      Quantity
}

// NewProductionProcess creates a validated ProductionProcess
func NewProductionProcess(id string, output *Product, inputs []MaterialPosition, productionTime TimeStep, batchSize Quantity) (*ProductionProcess, error) {
	if output == nil {
		return nil, fmt.Errorf("process output cannot be nil")
	}
	if id == "" {
		id = output.ID()
	}
	if productionTime < 0 {
		return nil, fmt.Errorf("process %s: production time cannot be negative, got %d", id, productionTime)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("process %s: batch size must be positive, got %d", id, batchSize)
	}
	for _, in := range inputs {
		if in.Item == nil {
			return nil, fmt.Errorf("process %s: input item cannot be nil", id)
		}
		if in.Amount <= 0 {
			return nil, fmt.Errorf("process %s: input %s amount must be positive, got %d", id, in.Item.ID(), in.Amount)
		}
		if in.Item.ID() == output.ID() {
			return nil, fmt.Errorf("process %s: product cannot be its own input", id)
		}
		if in.Item.Kind() == OrderKind {
			return nil, fmt.Errorf("process %s: orders cannot be process inputs", id)
		}
	}

	return &ProductionProcess{
		ID:             id,
		Inputs:         append([]MaterialPosition(nil), inputs...),
		Output:         output,
		ProductionTime: productionTime,
		BatchSize:      batchSize,
	}, nil
}

// Produces reports whether the process outputs the given item
func (p *ProductionProcess) Produces(item Item) bool {
	return item != nil && p.Output.ID() == item.ID()
}

// BatchesFor returns the number of whole batches needed to produce amount units
func (p *ProductionProcess) BatchesFor(amount Quantity) Quantity {
	if amount <= 0 {
		return 0
	}
	return (amount + p.BatchSize - 1) / p.BatchSize
}

// InputsFor returns the inputs consumed by the given number of batches
func (p *ProductionProcess) InputsFor(batches Quantity) []MaterialPosition {
	inputs := make([]MaterialPosition, len(p.Inputs))
	for i, in := range p.Inputs {
		inputs[i] = MaterialPosition{Item: in.Item, Amount: in.Amount * batches}
	}
	return inputs
}
