package csv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	testhelpers "github.com/vsinha/factorysim/pkg/infrastructure/testing"
)

func TestSave_LoadsBack(t *testing.T) {
	original := testhelpers.BuildAssemblyInstance()
	require.NoError(t, original.Factory().Warehouse().Seed([]entities.MaterialPosition{
		{Item: original.Factory().Material("COPPER"), Amount: 3},
	}))
	dir := filepath.Join(t.TempDir(), "assembly-plant")
	require.NoError(t, Save(original, dir))

	loaded, err := NewLoader(Options{Drivers: 2, WarehouseCapacity: 100}).Load(context.Background(), dir)
	require.NoError(t, err)

	want, got := original.Factory(), loaded.Factory()
	assert.Equal(t, want.Name(), got.Name())
	require.Len(t, got.Materials(), len(want.Materials()))
	for i, m := range want.Materials() {
		assert.Equal(t, m.ID(), got.Materials()[i].ID())
		assert.Equal(t, m.Name(), got.Materials()[i].Name())
		assert.Equal(t, m.Transport(), got.Materials()[i].Transport())
		assert.Equal(t, m.TravelTime(), got.Materials()[i].TravelTime())
	}
	require.Len(t, got.Productions(), 3)
	for i, p := range want.Productions() {
		assert.Equal(t, p.Name(), got.Productions()[i].Name())
		assert.Equal(t, p.Processes()[0].Inputs[0].String(), got.Productions()[i].Processes()[0].Inputs[0].String())
	}
	require.Len(t, got.Transporters(), 3)
	assert.Equal(t, "van", got.Transporters()[2].Name())
	assert.Equal(t, entities.Quantity(3), got.Warehouse().Amount(got.Material("COPPER")))

	require.Len(t, loaded.Orders(), 3)
	for i, o := range original.Orders() {
		assert.Equal(t, o.OrderNr(), loaded.Orders()[i].OrderNr())
		assert.True(t, o.Income().Equal(loaded.Orders()[i].Income()))
		assert.Equal(t, o.TravelTime(), loaded.Orders()[i].TravelTime())
	}
}
