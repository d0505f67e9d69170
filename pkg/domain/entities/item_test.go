package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_Validation(t *testing.T) {
	steel, err := NewMaterial("STEEL", "Steel Sheet", 2, TransportProfile{Zone: "EU", Engine: "Diesel", TransportTypes: []string{"Truck"}}, 4)
	require.NoError(t, err)
	assert.Equal(t, "STEEL", steel.ID())
	assert.Equal(t, MaterialKind, steel.Kind())
	assert.Equal(t, Quantity(2), steel.Area())
	assert.Equal(t, TimeStep(4), steel.TravelTime())

	testCases := []struct {
		name        string
		id          string
		area        Quantity
		travel      TimeStep
		expectError string
	}{
		{"empty id", "", 1, 1, "item id cannot be empty"},
		{"negative area", "P", -1, 1, "item P: area cannot be negative, got -1"},
		{"negative travel time", "P", 1, -3, "item P: travel time cannot be negative, got -3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProduct(tc.id, "", tc.area, TransportProfile{}, tc.travel)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestItem_NameDefaultsToID(t *testing.T) {
	gear, err := NewProduct("GEAR", "", 1, TransportProfile{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "GEAR", gear.Name())
	assert.Equal(t, ProductKind, gear.Kind())
}

func TestTransportProfile_Wildcards(t *testing.T) {
	testCases := []struct {
		name       string
		profile    TransportProfile
		engine     string
		kind       string
		wantEngine bool
		wantType   bool
	}{
		{"exact match", TransportProfile{Engine: "Diesel", TransportTypes: []string{"Truck"}}, "Diesel", "Truck", true, true},
		{"case insensitive", TransportProfile{Engine: "diesel", TransportTypes: []string{"truck"}}, "Diesel", "Truck", true, true},
		{"wildcards", TransportProfile{Engine: Wildcard, TransportTypes: []string{Wildcard}}, "Jet", "Air", true, true},
		{"mismatch", TransportProfile{Engine: "Electric", TransportTypes: []string{"Sea"}}, "Diesel", "Air", false, false},
		{"unconstrained", TransportProfile{}, "Jet", "Air", true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantEngine, tc.profile.AcceptsEngine(tc.engine))
			assert.Equal(t, tc.wantType, tc.profile.AcceptsType(tc.kind))
		})
	}
}

func TestItemKind_String(t *testing.T) {
	assert.Equal(t, "Material", MaterialKind.String())
	assert.Equal(t, "Product", ProductKind.String())
	assert.Equal(t, "Order", OrderKind.String())
	assert.Equal(t, "Unknown", ItemKind(42).String())
}
