package simulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

func TestDriver_Availability(t *testing.T) {
	d := NewDriver("d1", "Dana")
	assert.True(t, d.IsAvailable(0))

	require.NoError(t, d.Assign(2, 4))
	assert.Equal(t, entities.TimeStep(6), d.BlockedUntil())
	assert.False(t, d.IsAvailable(5))
	assert.True(t, d.IsAvailable(6))

	err := d.Assign(5, 1)
	assert.True(t, errors.Is(err, ErrDriverUnavailable))

	d.Reset()
	assert.True(t, d.IsAvailable(0))
	assert.Empty(t, d.Assignments())
}

func TestDriver_NoOverlappingAssignments(t *testing.T) {
	// two transporters share one driver; every trip must wait for the driver
	iron := mustMaterial(t, "IRON", 1, 4, "Truck")
	f := NewFactory("plant", NewWarehouse(UnlimitedCapacity))
	f.AddMaterial(iron)
	t1, _ := NewTransporter("t1", "Truck", "x", "", 10)
	t2, _ := NewTransporter("t2", "Truck", "x", "", 10)
	require.NoError(t, f.AddTransporter(t1))
	require.NoError(t, f.AddTransporter(t2))
	driver := NewDriver("d1", "")
	require.NoError(t, f.AddDriver(driver))

	plan := f.NewPlan()
	for i := 0; i < 3; i++ {
		for _, tr := range []*Transporter{t1, t2} {
			a := plan.Add(entities.AcquireFromSupplier, iron, 1, tr, 0)
			plan.Add(entities.MoveTransporterToWarehouse, iron, 1, tr, 0, a)
		}
	}

	result, err := f.StartFactory(nil, plan.Steps(), 100)
	require.NoError(t, err)
	require.True(t, result.Completed)
	assert.Equal(t, entities.Quantity(6), f.Warehouse().Amount(iron))

	windows := driver.Assignments()
	require.Len(t, windows, 6)
	for i := range windows {
		for j := i + 1; j < len(windows); j++ {
			assert.False(t, windows[i].Overlaps(windows[j]), "%v overlaps %v", windows[i], windows[j])
		}
	}
	assert.Equal(t, entities.TimeStep(24), result.CompletionTime)
}
