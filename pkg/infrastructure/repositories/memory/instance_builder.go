package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/repositories"
	"github.com/vsinha/factorysim/pkg/domain/services"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// InstanceBuilder collects the parsed parts of an instance source and assembles them
// into a validated simulation instance. Loaders feed it row by row.
type InstanceBuilder struct {
	Catalog *CatalogRepository

	productions  []*simulation.Production
	transporters []*simulation.Transporter
	drivers      []*simulation.Driver
	stock        []entities.MaterialPosition
	orders       []*entities.Order
}

// NewInstanceBuilder creates an empty builder
func NewInstanceBuilder() *InstanceBuilder {
	return &InstanceBuilder{Catalog: NewCatalogRepository(32)}
}

// Resolve looks an item up by id or name
func (b *InstanceBuilder) Resolve(ref string) (entities.Item, error) {
	return b.Catalog.GetItem(ref)
}

// ResolvePositions parses a list like "2xSTEEL 1xCOPPER" (commas also separate)
func (b *InstanceBuilder) ResolvePositions(list string) ([]entities.MaterialPosition, error) {
	var positions []entities.MaterialPosition
	for _, field := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ' ' }) {
		amount, ref, err := splitPosition(field)
		if err != nil {
			return nil, err
		}
		item, err := b.Resolve(ref)
		if err != nil {
			return nil, err
		}
		positions = append(positions, entities.MaterialPosition{Item: item, Amount: amount})
	}
	return positions, nil
}

func splitPosition(field string) (entities.Quantity, string, error) {
	i := 0
	for i < len(field) && field[i] >= '0' && field[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(field) || (field[i] != 'x' && field[i] != 'X' && field[i] != '*') {
		return 0, "", fmt.Errorf("%w: position %q must look like 2xITEM", repositories.ErrMalformedSource, field)
	}
	amount, err := strconv.ParseInt(field[:i], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: position %q: %v", repositories.ErrMalformedSource, field, err)
	}
	return entities.Quantity(amount), field[i+1:], nil
}

// AddProduction registers a production line
func (b *InstanceBuilder) AddProduction(p *simulation.Production) {
	b.productions = append(b.productions, p)
}

// AddTransporter registers a transporter
func (b *InstanceBuilder) AddTransporter(t *simulation.Transporter) {
	b.transporters = append(b.transporters, t)
}

// AddDrivers registers count anonymous drivers named driver-1 .. driver-n
func (b *InstanceBuilder) AddDrivers(count int) {
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("driver-%d", len(b.drivers)+1)
		b.drivers = append(b.drivers, simulation.NewDriver(id, id))
	}
}

// AddDriver registers a named driver
func (b *InstanceBuilder) AddDriver(d *simulation.Driver) {
	b.drivers = append(b.drivers, d)
}

// AddStock seeds the warehouse baseline
func (b *InstanceBuilder) AddStock(pos entities.MaterialPosition) {
	b.stock = append(b.stock, pos)
}

// AddOrder appends an order in arrival order
func (b *InstanceBuilder) AddOrder(o *entities.Order) {
	b.orders = append(b.orders, o)
}

// Build assembles the factory and rejects catalogs with process cycles
func (b *InstanceBuilder) Build(name string, warehouseCapacity entities.Quantity, opts ...simulation.Option) (*simulation.Instance, error) {
	warehouse := simulation.NewWarehouse(warehouseCapacity)
	if err := warehouse.Seed(b.stock); err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrMalformedSource, err)
	}

	factory := simulation.NewFactory(name, warehouse, opts...)
	for _, m := range b.Catalog.Materials() {
		factory.AddMaterial(m)
	}
	for _, p := range b.Catalog.Products() {
		factory.AddProduct(p)
	}
	for _, p := range b.productions {
		if err := factory.AddProduction(p); err != nil {
			return nil, fmt.Errorf("%w: %v", repositories.ErrMalformedSource, err)
		}
	}
	for _, t := range b.transporters {
		if err := factory.AddTransporter(t); err != nil {
			return nil, fmt.Errorf("%w: %v", repositories.ErrMalformedSource, err)
		}
	}
	for _, d := range b.drivers {
		if err := factory.AddDriver(d); err != nil {
			return nil, fmt.Errorf("%w: %v", repositories.ErrMalformedSource, err)
		}
	}

	result := services.NewCatalogValidator().Validate(factory, b.orders)
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", repositories.ErrMalformedSource, strings.Join(result.Errors, "; "))
	}

	instance, err := simulation.NewInstance(factory, b.orders)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrMalformedSource, err)
	}
	return instance, nil
}
