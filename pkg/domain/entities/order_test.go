package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("WIDGET", "Widget", 1, TransportProfile{Zone: "EU", Engine: "x", TransportTypes: []string{"Truck"}}, 3)
	require.NoError(t, err)
	return p
}

func TestOrder_Validation(t *testing.T) {
	widget := newTestProduct(t)

	order, err := NewOrder("A-1", MaterialPosition{Item: widget, Amount: 5}, decimal.NewFromInt(100), 0)
	require.NoError(t, err)
	assert.Equal(t, "A-1", order.ID())
	assert.Equal(t, OrderKind, order.Kind())
	assert.Equal(t, Quantity(5), order.Remaining())
	assert.Equal(t, TimeStep(3), order.TravelTime(), "travel time inherited from product")
	assert.Equal(t, "EU", order.Transport().Zone)

	testCases := []struct {
		name        string
		orderNr     string
		position    MaterialPosition
		income      decimal.Decimal
		expectError string
	}{
		{"empty order number", "", MaterialPosition{Item: widget, Amount: 1}, decimal.Zero, "order number cannot be empty"},
		{"nil item", "B", MaterialPosition{Amount: 1}, decimal.Zero, "order B: item cannot be nil"},
		{"zero amount", "B", MaterialPosition{Item: widget}, decimal.Zero, "order B: amount must be positive, got 0"},
		{"negative income", "B", MaterialPosition{Item: widget, Amount: 1}, decimal.NewFromInt(-1), "order B: income cannot be negative, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder(tc.orderNr, tc.position, tc.income, 0)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestOrder_Deduct(t *testing.T) {
	order, err := NewOrder("A-1", MaterialPosition{Item: newTestProduct(t), Amount: 5}, decimal.NewFromInt(10), 0)
	require.NoError(t, err)

	require.NoError(t, order.Deduct(2))
	require.NoError(t, order.Deduct(3))
	assert.Equal(t, Quantity(0), order.Remaining())
	assert.Equal(t, Quantity(5), order.Delivered())

	assert.Error(t, order.Deduct(1), "deducting past zero must fail")
	assert.Equal(t, Quantity(0), order.Remaining(), "remaining never goes negative")
	assert.Error(t, order.Deduct(0))
}

func TestOrder_CloseAndClone(t *testing.T) {
	order, err := NewOrder("A-1", MaterialPosition{Item: newTestProduct(t), Amount: 2}, decimal.NewFromInt(10), 7)
	require.NoError(t, err)
	assert.Equal(t, TimeStep(7), order.TravelTime())

	assert.Error(t, order.Close(), "open amount blocks closing")
	require.NoError(t, order.Deduct(2))
	require.NoError(t, order.Close())
	assert.True(t, order.Closed())
	assert.Error(t, order.Close(), "double close")

	clone := order.Clone()
	assert.False(t, clone.Closed())
	assert.Equal(t, Quantity(2), clone.Remaining())
	assert.True(t, order.Closed(), "clone does not touch the original")
	assert.True(t, clone.Income().Equal(order.Income()))
}
