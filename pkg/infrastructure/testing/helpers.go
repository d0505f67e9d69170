package testing

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// BuildSingleLineInstance builds the single production line scenario: one line making
// WIDGET from nothing with batch size 1 and production time 2, an unlimited warehouse,
// no transporters, and one order for 3 widgets worth 150
func BuildSingleLineInstance() *simulation.Instance {
	widget := must(entities.NewProduct("WIDGET", "Widget", 1, anyTransport(), 0))
	process := must(entities.NewProductionProcess("widget", widget, nil, 2, 1))
	line := must(simulation.NewProduction("line-1", 1, 1, process))

	factory := simulation.NewFactory("single-line", simulation.NewWarehouse(simulation.UnlimitedCapacity))
	factory.AddProduct(widget)
	check(factory.AddProduction(line))

	order := must(entities.NewOrder("O-1", entities.MaterialPosition{Item: widget, Amount: 3}, decimal.NewFromInt(150), 0))
	return must(simulation.NewInstance(factory, []*entities.Order{order}))
}

// BuildAssemblyInstance builds a two level assembly plant:
//
//	STEEL --press--> GEAR --assembly--> MOTOR <-- COPPER
//
// with three trucks/vans, two drivers and three orders
func BuildAssemblyInstance() *simulation.Instance {
	steel := must(entities.NewMaterial("STEEL", "Steel Bar", 1, entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: []string{"Truck"}}, 3))
	copper := must(entities.NewMaterial("COPPER", "Copper Coil", 1, entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: []string{"Truck", "Van"}}, 5))
	gear := must(entities.NewProduct("GEAR", "Gear", 1, entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: []string{"Truck"}}, 2))
	motor := must(entities.NewProduct("MOTOR", "Motor", 2, entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: []string{"Truck", "Van"}}, 2))

	gearProcess := must(entities.NewProductionProcess("gear", gear, []entities.MaterialPosition{{Item: steel, Amount: 2}}, 2, 2))
	motorProcess := must(entities.NewProductionProcess("motor", motor, []entities.MaterialPosition{{Item: gear, Amount: 1}, {Item: copper, Amount: 1}}, 3, 1))

	factory := simulation.NewFactory("assembly-plant", simulation.NewWarehouse(100))
	factory.AddMaterial(steel)
	factory.AddMaterial(copper)
	factory.AddProduct(gear)
	factory.AddProduct(motor)
	check(factory.AddProduction(must(simulation.NewProduction("press", 2, 2, gearProcess))))
	check(factory.AddProduction(must(simulation.NewProduction("assembly-1", 2, 2, motorProcess))))
	check(factory.AddProduction(must(simulation.NewProduction("assembly-2", 2, 2, motorProcess))))
	check(factory.AddTransporter(must(simulation.NewTransporter("truck-small", "Truck", "Diesel", "", 4))))
	check(factory.AddTransporter(must(simulation.NewTransporter("truck-large", "Truck", "Diesel", "", 10))))
	check(factory.AddTransporter(must(simulation.NewTransporter("van", "Van", "Electric", "", 3))))
	check(factory.AddDriver(simulation.NewDriver("d1", "Dana")))
	check(factory.AddDriver(simulation.NewDriver("d2", "Ravi")))

	orders := []*entities.Order{
		must(entities.NewOrder("O-1", entities.MaterialPosition{Item: motor, Amount: 2}, decimal.NewFromInt(300), 0)),
		must(entities.NewOrder("O-2", entities.MaterialPosition{Item: gear, Amount: 4}, decimal.NewFromInt(120), 0)),
		must(entities.NewOrder("O-3", entities.MaterialPosition{Item: motor, Amount: 1}, decimal.NewFromInt(160), 0)),
	}
	return must(simulation.NewInstance(factory, orders))
}

// BuildSeaFreightInstance builds a plant whose only transporter flies while its only
// material ships by sea, so nothing can be bought
func BuildSeaFreightInstance() *simulation.Instance {
	salt := must(entities.NewMaterial("SALT", "Sea Salt", 1, entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: []string{"Sea"}}, 4))
	brine := must(entities.NewProduct("BRINE", "Brine", 1, anyTransport(), 1))
	process := must(entities.NewProductionProcess("brine", brine, []entities.MaterialPosition{{Item: salt, Amount: 1}}, 1, 1))

	factory := simulation.NewFactory("coastal", simulation.NewWarehouse(20))
	factory.AddMaterial(salt)
	factory.AddProduct(brine)
	check(factory.AddProduction(must(simulation.NewProduction("mixer", 1, 1, process))))
	check(factory.AddTransporter(must(simulation.NewTransporter("plane", "Air", "Jet", "", 10))))
	check(factory.AddDriver(simulation.NewDriver("pilot", "")))

	order := must(entities.NewOrder("S-1", entities.MaterialPosition{Item: brine, Amount: 2}, decimal.NewFromInt(40), 0))
	return must(simulation.NewInstance(factory, []*entities.Order{order}))
}

func anyTransport() entities.TransportProfile {
	return entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: []string{entities.Wildcard}}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
