package simulation

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

func TestWarehouse_CapacityExceeded(t *testing.T) {
	w := NewWarehouse(5)
	crate := mustMaterial(t, "CRATE", 2, 1)

	err := w.Add(entities.MaterialPosition{Item: crate, Amount: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Empty(t, w.Stock(), "stock unchanged")
	assert.Equal(t, entities.Quantity(0), w.Used())

	require.NoError(t, w.Add(entities.MaterialPosition{Item: crate, Amount: 2}))
	assert.Equal(t, entities.Quantity(4), w.Used())
	assert.True(t, errors.Is(w.Add(entities.MaterialPosition{Item: crate, Amount: 1}), ErrCapacityExceeded))
	assert.Equal(t, entities.Quantity(2), w.Amount(crate))
}

func TestWarehouse_RemoveAndAvailability(t *testing.T) {
	w := NewWarehouse(UnlimitedCapacity)
	iron := mustMaterial(t, "IRON", 1, 1)
	coal := mustMaterial(t, "COAL", 1, 1)
	require.NoError(t, w.Add(entities.MaterialPosition{Item: iron, Amount: 4}))
	require.NoError(t, w.Add(entities.MaterialPosition{Item: coal, Amount: 1}))

	assert.True(t, w.CheckAvailability(iron, 4))
	assert.False(t, w.CheckAvailability(iron, 5))
	assert.Equal(t, entities.Quantity(4), w.Amount(iron), "availability check is pure")

	err := w.RemoveAll([]entities.MaterialPosition{{Item: iron, Amount: 2}, {Item: coal, Amount: 2}})
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Equal(t, entities.Quantity(4), w.Amount(iron), "failed removal removes nothing")

	require.NoError(t, w.Remove(entities.MaterialPosition{Item: coal, Amount: 1}))
	assert.False(t, w.CheckAvailability(coal, 1))
	require.Len(t, w.Stock(), 1, "empty lines are dropped")
}

func TestWarehouse_ResetRestoresSeed(t *testing.T) {
	w := NewWarehouse(10)
	iron := mustMaterial(t, "IRON", 2, 1)
	require.NoError(t, w.Seed([]entities.MaterialPosition{{Item: iron, Amount: 3}}))

	require.NoError(t, w.Remove(entities.MaterialPosition{Item: iron, Amount: 3}))
	assert.Equal(t, entities.Quantity(0), w.Used())

	w.Reset()
	assert.Equal(t, entities.Quantity(3), w.Amount(iron))
	assert.Equal(t, entities.Quantity(6), w.Used())

	assert.True(t, errors.Is(w.Seed([]entities.MaterialPosition{{Item: iron, Amount: 6}}), ErrCapacityExceeded))
}

func TestWarehouse_CapacityInvariantUnderRandomTraffic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := []entities.Item{
		mustMaterial(t, "A", 1, 1),
		mustMaterial(t, "B", 2, 1),
		mustMaterial(t, "C", 3, 1),
	}
	w := NewWarehouse(17)

	for i := 0; i < 2000; i++ {
		pos := entities.MaterialPosition{Item: items[rng.Intn(len(items))], Amount: entities.Quantity(rng.Intn(5))}
		if rng.Intn(2) == 0 {
			_ = w.Add(pos)
		} else {
			_ = w.Remove(pos)
		}
		require.LessOrEqual(t, w.Used(), w.Capacity())
		for _, line := range w.Stock() {
			require.GreaterOrEqual(t, line.Amount, entities.Quantity(0))
		}
	}
}
