package yaml

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/repositories"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
	"github.com/vsinha/factorysim/pkg/infrastructure/repositories/memory"
)

// Options fill in what a document leaves out
type Options struct {
	Drivers           int
	WarehouseCapacity entities.Quantity
	FactoryOptions    []simulation.Option
}

// Loader reads single-file YAML instances
type Loader struct {
	options Options
}

// NewLoader creates a new YAML loader
func NewLoader(options Options) *Loader {
	return &Loader{options: options}
}

var _ repositories.InstanceLoader = (*Loader)(nil)

// Load reads the instance in the file source
func (l *Loader) Load(ctx context.Context, source string) (*simulation.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", repositories.ErrMalformedSource, source, err)
	}
	return l.Decode(data)
}

// Decode builds an instance from YAML bytes
func (l *Loader) Decode(data []byte) (*simulation.Instance, error) {
	var doc Document
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrMalformedSource, err)
	}
	inst, err := l.build(&doc)
	if err != nil {
		if errors.Is(err, repositories.ErrMalformedSource) || errors.Is(err, repositories.ErrUnknownItem) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", repositories.ErrMalformedSource, err)
	}
	return inst, nil
}

func (l *Loader) build(doc *Document) (*simulation.Instance, error) {
	b := memory.NewInstanceBuilder()

	for i, spec := range doc.Materials {
		m, err := entities.NewMaterial(spec.ID, spec.Name, entities.Quantity(spec.Area), profile(spec), entities.TimeStep(spec.TravelTime))
		if err != nil {
			return nil, fmt.Errorf("materials[%d]: %w", i, err)
		}
		if err := b.Catalog.AddItem(m); err != nil {
			return nil, fmt.Errorf("materials[%d]: %w", i, err)
		}
	}
	for i, spec := range doc.Products {
		p, err := entities.NewProduct(spec.ID, spec.Name, entities.Quantity(spec.Area), profile(spec), entities.TimeStep(spec.TravelTime))
		if err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		if err := b.Catalog.AddItem(p); err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
	}

	for i, spec := range doc.Productions {
		var processes []*entities.ProductionProcess
		for j, ps := range spec.Processes {
			process, err := l.process(b, ps)
			if err != nil {
				return nil, fmt.Errorf("productions[%d].processes[%d]: %w", i, j, err)
			}
			processes = append(processes, process)
		}
		p, err := simulation.NewProduction(spec.Name, spec.InputBuffer, spec.OutputBuffer, processes...)
		if err != nil {
			return nil, fmt.Errorf("productions[%d]: %w", i, err)
		}
		b.AddProduction(p)
	}

	for i, spec := range doc.Transporters {
		t, err := simulation.NewTransporter(spec.Name, spec.Type, spec.Engine, spec.Zone, entities.Quantity(spec.Capacity))
		if err != nil {
			return nil, fmt.Errorf("transporters[%d]: %w", i, err)
		}
		b.AddTransporter(t)
	}

	if len(doc.Drivers) == 0 {
		b.AddDrivers(l.options.Drivers)
	}
	for _, spec := range doc.Drivers {
		b.AddDriver(simulation.NewDriver(spec.ID, spec.Name))
	}

	for i, spec := range doc.Warehouse.Stock {
		pos, err := position(b, spec)
		if err != nil {
			return nil, fmt.Errorf("warehouse.stock[%d]: %w", i, err)
		}
		b.AddStock(pos)
	}

	for i, spec := range doc.Orders {
		item, err := b.Resolve(spec.Item)
		if err != nil {
			return nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		income, err := decimal.NewFromString(spec.Income)
		if err != nil {
			return nil, fmt.Errorf("orders[%d]: invalid income %q", i, spec.Income)
		}
		order, err := entities.NewOrder(spec.OrderNr, entities.MaterialPosition{Item: item, Amount: entities.Quantity(spec.Amount)}, income, entities.TimeStep(spec.TravelTime))
		if err != nil {
			return nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		b.AddOrder(order)
	}

	capacity := l.options.WarehouseCapacity
	if doc.Warehouse.Capacity != nil {
		capacity = entities.Quantity(*doc.Warehouse.Capacity)
	}
	name := doc.Name
	if name == "" {
		name = "factory"
	}
	return b.Build(name, capacity, l.options.FactoryOptions...)
}

func (l *Loader) process(b *memory.InstanceBuilder, spec ProcessSpec) (*entities.ProductionProcess, error) {
	output, err := b.Resolve(spec.Output)
	if err != nil {
		return nil, err
	}
	product, ok := output.(*entities.Product)
	if !ok {
		return nil, fmt.Errorf("%s is not a product", output.ID())
	}
	var inputs []entities.MaterialPosition
	for _, in := range spec.Inputs {
		pos, err := position(b, in)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, pos)
	}
	return entities.NewProductionProcess(spec.ID, product, inputs, entities.TimeStep(spec.ProductionTime), entities.Quantity(spec.BatchSize))
}

func position(b *memory.InstanceBuilder, spec PositionSpec) (entities.MaterialPosition, error) {
	item, err := b.Resolve(spec.Item)
	if err != nil {
		return entities.MaterialPosition{}, err
	}
	return entities.MaterialPosition{Item: item, Amount: entities.Quantity(spec.Amount)}, nil
}

func profile(spec ItemSpec) entities.TransportProfile {
	return entities.TransportProfile{Zone: spec.Zone, Engine: spec.Engine, TransportTypes: spec.TransportTypes}
}

// Encode renders an instance as a YAML document
func Encode(inst *simulation.Instance) ([]byte, error) {
	return yamlv3.Marshal(FromInstance(inst))
}

// Save writes an instance to a YAML file
func Save(inst *simulation.Instance, filename string) error {
	data, err := Encode(inst)
	if err != nil {
		return fmt.Errorf("failed to encode instance: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
