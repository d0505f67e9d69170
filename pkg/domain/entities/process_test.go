package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionProcess_Validation(t *testing.T) {
	iron, _ := NewMaterial("IRON", "", 1, TransportProfile{}, 1)
	gear, _ := NewProduct("GEAR", "", 1, TransportProfile{}, 1)

	process, err := NewProductionProcess("", gear, []MaterialPosition{{Item: iron, Amount: 2}}, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, "GEAR", process.ID)
	assert.True(t, process.Produces(gear))
	assert.False(t, process.Produces(iron))

	testCases := []struct {
		name   string
		output *Product
		inputs []MaterialPosition
		time   TimeStep
		batch  Quantity
	}{
		{"nil output", nil, nil, 1, 1},
		{"negative time", gear, nil, -1, 1},
		{"zero batch", gear, nil, 1, 0},
		{"self input", gear, []MaterialPosition{{Item: gear, Amount: 1}}, 1, 1},
		{"zero input amount", gear, []MaterialPosition{{Item: iron}}, 1, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProductionProcess("p", tc.output, tc.inputs, tc.time, tc.batch)
			assert.Error(t, err)
		})
	}
}

func TestProductionProcess_BatchRounding(t *testing.T) {
	iron, _ := NewMaterial("IRON", "", 1, TransportProfile{}, 1)
	gear, _ := NewProduct("GEAR", "", 1, TransportProfile{}, 1)
	process, err := NewProductionProcess("gear", gear, []MaterialPosition{{Item: iron, Amount: 2}}, 3, 4)
	require.NoError(t, err)

	testCases := []struct {
		amount  Quantity
		batches Quantity
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{8, 2},
		{9, 3},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.batches, process.BatchesFor(tc.amount), "amount %d", tc.amount)
	}

	inputs := process.InputsFor(3)
	require.Len(t, inputs, 1)
	assert.Equal(t, Quantity(6), inputs[0].Amount)
}

func TestStepKind_Classification(t *testing.T) {
	assert.True(t, Produce.IsProduction())
	assert.False(t, Produce.IsTransport())
	assert.True(t, CloseOrder.IsTransport())
	assert.False(t, NoAction.IsProduction() || NoAction.IsTransport())
	assert.Equal(t, "MoveTransporterToWarehouse", MoveTransporterToWarehouse.String())
}
