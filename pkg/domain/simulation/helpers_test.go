package simulation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

func mustMaterial(t *testing.T, id string, area entities.Quantity, travel entities.TimeStep, types ...string) *entities.Material {
	t.Helper()
	m, err := entities.NewMaterial(id, "", area, entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: types}, travel)
	require.NoError(t, err)
	return m
}

func mustProduct(t *testing.T, id string, area entities.Quantity, travel entities.TimeStep) *entities.Product {
	t.Helper()
	p, err := entities.NewProduct(id, "", area, entities.TransportProfile{Engine: entities.Wildcard, TransportTypes: []string{entities.Wildcard}}, travel)
	require.NoError(t, err)
	return p
}

func mustOrder(t *testing.T, nr string, item entities.Item, amount entities.Quantity, income int64) *entities.Order {
	t.Helper()
	o, err := entities.NewOrder(nr, entities.MaterialPosition{Item: item, Amount: amount}, decimal.NewFromInt(income), 0)
	require.NoError(t, err)
	return o
}

// singleLineFactory has one production line making WIDGET from nothing, batch size 1,
// production time 2, and an unlimited warehouse
func singleLineFactory(t *testing.T) (*Factory, *Production, *entities.Product) {
	t.Helper()
	widget := mustProduct(t, "WIDGET", 1, 0)
	process, err := entities.NewProductionProcess("widget", widget, nil, 2, 1)
	require.NoError(t, err)
	line, err := NewProduction("line-1", 1, 1, process)
	require.NoError(t, err)

	f := NewFactory("plant", NewWarehouse(UnlimitedCapacity))
	f.AddProduct(widget)
	require.NoError(t, f.AddProduction(line))
	return f, line, widget
}

// planBatches adds the four production steps per batch plus pickup and close steps
func planBatches(f *Factory, line *Production, order *entities.Order, batches int, productionTime entities.TimeStep) *Plan {
	plan := f.NewPlan()
	product := order.Product()
	var stored []*FactoryStep
	for b := 0; b < batches; b++ {
		start := entities.TimeStep(b) * productionTime
		in := plan.Add(entities.MoveToInputBuffer, product, 1, line, start)
		pr := plan.Add(entities.Produce, product, 1, line, start, in)
		out := plan.Add(entities.MoveToOutputBuffer, product, 1, line, start+productionTime, pr)
		stored = append(stored, plan.Add(entities.MoveToWarehouse, product, 1, line, start+productionTime, out))
	}
	end := entities.TimeStep(batches) * productionTime
	conclude := plan.Add(entities.ConcludeTransportToCustomer, order, order.Position().Amount, nil, end, stored...)
	plan.Add(entities.CloseOrder, order, order.Position().Amount, nil, end, conclude)
	return plan
}
