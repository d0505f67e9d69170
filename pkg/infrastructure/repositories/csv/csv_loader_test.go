package csv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/repositories"
)

func TestLoader_Load(t *testing.T) {
	loader := NewLoader(Options{Drivers: 3, WarehouseCapacity: 100})

	inst, err := loader.Load(context.Background(), filepath.Join("testdata", "plant"))
	require.NoError(t, err)

	f := inst.Factory()
	assert.Equal(t, "plant", f.Name())
	assert.Len(t, f.Materials(), 2)
	assert.Len(t, f.Products(), 2)
	assert.Len(t, f.Drivers(), 3)
	assert.Equal(t, entities.Quantity(100), f.Warehouse().Capacity())
	assert.Equal(t, entities.Quantity(4), f.Warehouse().Amount(f.Material("STEEL")))

	productions := f.Productions()
	require.Len(t, productions, 2)
	assert.Equal(t, "press", productions[0].Name())
	assembly := productions[1]
	assert.Equal(t, "assembly", assembly.Name())
	in, out := assembly.Capacity()
	assert.Equal(t, 2, in)
	assert.Equal(t, 1, out)
	require.Len(t, assembly.Processes(), 2)
	gearProcess := assembly.ProcessFor(f.Product("GEAR"))
	require.NotNil(t, gearProcess)
	assert.Equal(t, entities.TimeStep(4), gearProcess.ProductionTime)
	assert.Equal(t, entities.Quantity(1), gearProcess.BatchSize)

	transporters := f.Transporters()
	require.Len(t, transporters, 2)
	assert.Equal(t, "truck-small", transporters[0].Name())
	assert.Equal(t, "_Van_Electric_3", transporters[1].Name())
	assert.True(t, transporters[1].Fits(f.Material("COPPER")))
	assert.False(t, transporters[1].Fits(f.Material("STEEL")))

	orders := inst.Orders()
	require.Len(t, orders, 2)
	assert.True(t, orders[0].Income().Equal(decimal.RequireFromString("300.50")))
	assert.Equal(t, entities.TimeStep(2), orders[0].TravelTime(), "blank travel time inherits the product's")
	assert.Equal(t, entities.TimeStep(6), orders[1].TravelTime())
}

func TestLoader_AlternateOrdersFile(t *testing.T) {
	loader := NewLoader(Options{Drivers: 1, WarehouseCapacity: -1, OrdersFile: "orders-small.csv"})

	inst, err := loader.Load(context.Background(), filepath.Join("testdata", "plant"))
	require.NoError(t, err)
	require.Len(t, inst.Orders(), 1)
	assert.Equal(t, "S-1", inst.Orders()[0].OrderNr())
	assert.True(t, inst.Factory().Warehouse().Unlimited())
}

func writeInstance(t *testing.T, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		MaterialsFile:   "id;name;zone;transport_types;engine;area;travel_time\nSTEEL;Steel;;Truck;x;1;3\n",
		ProductsFile:    "id;name;zone;transport_types;engine;area;travel_time\nGEAR;Gear;;Truck;x;1;2\n",
		ProductionsFile: "production;buffers;output;batch_size;production_time;inputs\npress;1/1;GEAR;1;2;1xSTEEL\n",
		OrdersFile:      "order_nr;item;amount;income;travel_time\nO-1;GEAR;1;10;\n",
	}
	for name, content := range overrides {
		files[name] = content
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		want      error
		contains  string
	}{
		{
			name:      "unknown order item",
			overrides: map[string]string{OrdersFile: "order_nr;item;amount;income;travel_time\nO-1;GEAR;1;10;\nO-2;WIDGET;1;10;\n"},
			want:      repositories.ErrUnknownItem,
			contains:  "orders.csv row 3",
		},
		{
			name:      "bad buffers",
			overrides: map[string]string{ProductionsFile: "production;buffers;output;batch_size;production_time;inputs\npress;1-1;GEAR;1;2;1xSTEEL\n"},
			want:      repositories.ErrMalformedSource,
			contains:  "expected in/out",
		},
		{
			name:      "zero capacity transporter",
			overrides: map[string]string{TransportersFile: "name;zone;type;engine;capacity\nt1;;Truck;Diesel;0\n"},
			want:      repositories.ErrMalformedSource,
			contains:  "Capacity",
		},
		{
			name:      "negative amount",
			overrides: map[string]string{OrdersFile: "order_nr;item;amount;income;travel_time\nO-1;GEAR;-1;10;\n"},
			want:      repositories.ErrMalformedSource,
			contains:  "Amount",
		},
		{
			name:      "material as output",
			overrides: map[string]string{ProductionsFile: "production;buffers;output;batch_size;production_time;inputs\npress;1/1;STEEL;1;2;\n"},
			want:      repositories.ErrMalformedSource,
			contains:  "not a product",
		},
		{
			name: "process cycle",
			overrides: map[string]string{
				ProductsFile:    "id;name;zone;transport_types;engine;area;travel_time\nGEAR;Gear;;Truck;x;1;2\nAXLE;Axle;;Truck;x;1;2\n",
				ProductionsFile: "production;buffers;output;batch_size;production_time;inputs\npress;1/1;GEAR;1;2;1xAXLE\n;;AXLE;1;2;1xGEAR\n",
			},
			want:     repositories.ErrMalformedSource,
			contains: "cycle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeInstance(t, tt.overrides)
			_, err := NewLoader(Options{Drivers: 1, WarehouseCapacity: 10}).Load(context.Background(), dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, strings.Contains(err.Error(), tt.contains), "error %q should contain %q", err, tt.contains)
		})
	}
}

func TestLoader_MissingDirectory(t *testing.T) {
	_, err := NewLoader(Options{}).Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, repositories.ErrMalformedSource)
}
