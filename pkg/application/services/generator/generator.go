package generator

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Config holds the shape of a generated instance
type Config struct {
	Name              string `validate:"required"`
	Materials         int    `validate:"min=1"`
	Products          int    `validate:"min=1"`
	MaxDepth          int    `validate:"min=1"`
	Productions       int    `validate:"min=1"`
	Transporters      int    `validate:"min=1"`
	Drivers           int    `validate:"min=0"`
	Orders            int    `validate:"min=0"`
	WarehouseCapacity int64  `validate:"min=-1"`
	Seed              int64
}

// DefaultConfig returns a small plant that schedules in well under a second
func DefaultConfig() Config {
	return Config{
		Name:              "generated",
		Materials:         4,
		Products:          5,
		MaxDepth:          3,
		Productions:       3,
		Transporters:      3,
		Drivers:           2,
		Orders:            4,
		WarehouseCapacity: int64(simulation.UnlimitedCapacity),
		Seed:              1,
	}
}

var transportTypes = []string{"Truck", "Van"}

// node is one product of the generated process tree
type node struct {
	product  *entities.Product
	level    int
	children []entities.MaterialPosition
}

// Generator builds random but always feasible instances
type Generator struct {
	config Config
	rand   *rand.Rand
}

// New creates a generator; equal configs produce equal instances
func New(config Config) (*Generator, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	return &Generator{config: config, rand: rand.New(rand.NewSource(config.Seed))}, nil
}

// Generate builds the instance
func (g *Generator) Generate() (*simulation.Instance, error) {
	materials, err := g.generateMaterials()
	if err != nil {
		return nil, err
	}
	nodes, err := g.generateProducts(materials)
	if err != nil {
		return nil, err
	}

	factory := simulation.NewFactory(g.config.Name, simulation.NewWarehouse(entities.Quantity(g.config.WarehouseCapacity)))
	for _, m := range materials {
		factory.AddMaterial(m)
	}
	for _, n := range nodes {
		factory.AddProduct(n.product)
	}

	if err := g.generateProductions(factory, nodes); err != nil {
		return nil, err
	}
	if err := g.generateTransporters(factory); err != nil {
		return nil, err
	}
	for i := 0; i < g.config.Drivers; i++ {
		if err := factory.AddDriver(simulation.NewDriver(fmt.Sprintf("driver-%d", i+1), "")); err != nil {
			return nil, err
		}
	}

	orders, err := g.generateOrders(nodes)
	if err != nil {
		return nil, err
	}
	return simulation.NewInstance(factory, orders)
}

func (g *Generator) generateMaterials() ([]*entities.Material, error) {
	materials := make([]*entities.Material, 0, g.config.Materials)
	for i := 0; i < g.config.Materials; i++ {
		id := fmt.Sprintf("MAT_%03d", i+1)
		m, err := entities.NewMaterial(id, "", entities.Quantity(1+g.rand.Intn(3)), g.profile(), entities.TimeStep(1+g.rand.Intn(5)))
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, nil
}

func (g *Generator) profile() entities.TransportProfile {
	if g.rand.Float64() < 0.5 {
		return entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: append([]string(nil), transportTypes...)}
	}
	return entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: []string{transportTypes[g.rand.Intn(len(transportTypes))]}}
}

// generateProducts creates products deepest level first, so every input is either a
// material or a product of a deeper level and the process graph stays acyclic
func (g *Generator) generateProducts(materials []*entities.Material) ([]*node, error) {
	depth := g.config.MaxDepth
	if depth > g.config.Products {
		depth = g.config.Products
	}
	perLevel := make([]int, depth)
	for i := 0; i < g.config.Products; i++ {
		perLevel[i%depth]++
	}

	var (
		nodes  []*node
		deeper []*node
	)
	for level := depth - 1; level >= 0; level-- {
		var current []*node
		for i := 0; i < perLevel[level]; i++ {
			id := fmt.Sprintf("PROD_L%d_%03d", level, len(nodes)+len(current)+1)
			product, err := entities.NewProduct(id, "", entities.Quantity(1+g.rand.Intn(2)), g.profile(), entities.TimeStep(1+g.rand.Intn(4)))
			if err != nil {
				return nil, err
			}
			n := &node{product: product, level: level}
			n.children = g.pickInputs(materials, deeper)
			current = append(current, n)
		}
		nodes = append(current, nodes...)
		deeper = append(deeper, current...)
	}
	return nodes, nil
}

// pickInputs draws 1-3 distinct inputs, preferring deeper products when there are any
func (g *Generator) pickInputs(materials []*entities.Material, deeper []*node) []entities.MaterialPosition {
	var inputs []entities.MaterialPosition
	used := make(map[string]bool)
	count := 1 + g.rand.Intn(3)
	for len(inputs) < count {
		var item entities.Item
		if len(deeper) > 0 && (len(inputs) == 0 || g.rand.Float64() < 0.4) {
			item = deeper[g.rand.Intn(len(deeper))].product
		} else {
			item = materials[g.rand.Intn(len(materials))]
		}
		if used[item.ID()] {
			if len(used) >= len(materials)+len(deeper) {
				break
			}
			continue
		}
		used[item.ID()] = true
		inputs = append(inputs, entities.MaterialPosition{Item: item, Amount: entities.Quantity(1 + g.rand.Intn(3))})
	}
	return inputs
}

// generateProductions spreads one process per product over the production lines
func (g *Generator) generateProductions(factory *simulation.Factory, nodes []*node) error {
	lines := make([][]*entities.ProductionProcess, g.config.Productions)
	for i, n := range nodes {
		process, err := entities.NewProductionProcess("", n.product, n.children,
			entities.TimeStep(1+g.rand.Intn(4)), entities.Quantity(1+g.rand.Intn(3)))
		if err != nil {
			return err
		}
		lines[i%len(lines)] = append(lines[i%len(lines)], process)
	}
	for i, processes := range lines {
		if len(processes) == 0 {
			continue
		}
		p, err := simulation.NewProduction(fmt.Sprintf("line-%d", i+1), 1+g.rand.Intn(3), 1+g.rand.Intn(2), processes...)
		if err != nil {
			return err
		}
		if err := factory.AddProduction(p); err != nil {
			return err
		}
	}
	return nil
}

// generateTransporters makes sure every transport type has at least one vehicle
func (g *Generator) generateTransporters(factory *simulation.Factory) error {
	count := g.config.Transporters
	if count < len(transportTypes) {
		count = len(transportTypes)
	}
	for i := 0; i < count; i++ {
		transportType := transportTypes[i%len(transportTypes)]
		t, err := simulation.NewTransporter(
			fmt.Sprintf("%s-%d", strings.ToLower(transportType), i+1),
			transportType, "Diesel", "", entities.Quantity(3+g.rand.Intn(8)))
		if err != nil {
			return err
		}
		if err := factory.AddTransporter(t); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateOrders(nodes []*node) ([]*entities.Order, error) {
	var top []*node
	for _, n := range nodes {
		if n.level == 0 {
			top = append(top, n)
		}
	}
	orders := make([]*entities.Order, 0, g.config.Orders)
	for i := 0; i < g.config.Orders; i++ {
		n := top[g.rand.Intn(len(top))]
		income := decimal.New(int64(5000+g.rand.Intn(45000)), -2)
		order, err := entities.NewOrder(fmt.Sprintf("O-%03d", i+1),
			entities.MaterialPosition{Item: n.product, Amount: entities.Quantity(1 + g.rand.Intn(4))}, income, 0)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
