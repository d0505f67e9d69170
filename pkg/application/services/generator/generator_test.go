package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/domain/services"
)

func TestGenerator_Generate(t *testing.T) {
	config := DefaultConfig()
	config.Products = 7
	config.Orders = 6

	g, err := New(config)
	require.NoError(t, err)
	inst, err := g.Generate()
	require.NoError(t, err)

	f := inst.Factory()
	assert.Len(t, f.Materials(), config.Materials)
	assert.Len(t, f.Products(), config.Products)
	assert.Len(t, f.Productions(), config.Productions)
	assert.Len(t, f.Transporters(), config.Transporters)
	assert.Len(t, f.Drivers(), config.Drivers)
	assert.Len(t, inst.Orders(), config.Orders)
	assert.True(t, f.Warehouse().Unlimited())

	for _, o := range inst.Orders() {
		assert.Contains(t, o.Product().ID(), "PROD_L0_", "orders ask for top level products")
		assert.True(t, o.Income().IsPositive())
	}

	result := services.NewCatalogValidator().Validate(f, inst.Orders())
	assert.True(t, result.Valid(), "%v", result.Errors)
	assert.False(t, result.HasCycles)
	assert.Empty(t, result.Unproducible)
	assert.Empty(t, result.Unreachable)
	assert.Empty(t, result.Undeliverable)
}

func TestGenerator_Deterministic(t *testing.T) {
	generate := func() string {
		g, err := New(DefaultConfig())
		require.NoError(t, err)
		inst, err := g.Generate()
		require.NoError(t, err)
		return inst.Fingerprint()
	}
	assert.Equal(t, generate(), generate())
}

func TestGenerator_InvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.Materials = 0
	_, err := New(config)
	assert.Error(t, err)
}

func TestGenerator_MinimumTransporters(t *testing.T) {
	config := DefaultConfig()
	config.Transporters = 1
	g, err := New(config)
	require.NoError(t, err)
	inst, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, inst.Factory().Transporters(), 2, "one vehicle per transport type")
}
