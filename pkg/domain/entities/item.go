package entities

import (
	"fmt"
	"strings"
)

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// TimeStep is a point on the synthetic simulation clock
type TimeStep int64

// Wildcard matches any engine or transport type
const Wildcard = "x"

// ItemKind identifies the variant of a warehouse item
type ItemKind int

const (
	MaterialKind ItemKind = iota
	ProductKind
	OrderKind
)

// String method for ItemKind enum
func (k ItemKind) String() string {
	switch k {
	case MaterialKind:
		return "Material"
	case ProductKind:
		return "Product"
	case OrderKind:
		return "Order"
	default:
		return "Unknown"
	}
}

// TransportProfile describes how an item may be moved
type TransportProfile struct {
	Zone           string
	Engine         string
	TransportTypes []string
}

// AcceptsEngine reports whether the profile allows the given engine
func (p TransportProfile) AcceptsEngine(engine string) bool {
	return p.Engine == "" || p.Engine == Wildcard || strings.EqualFold(p.Engine, engine)
}

// AcceptsType reports whether the profile allows the given transport type
func (p TransportProfile) AcceptsType(transportType string) bool {
	if len(p.TransportTypes) == 0 {
		return true
	}
	for _, t := range p.TransportTypes {
		if t == Wildcard || strings.EqualFold(t, transportType) {
			return true
		}
	}
	return false
}

// Item is a warehouse item. The variant set is closed: *Material, *Product and *Order.
type Item interface {
	ID() string
	Name() string
	Kind() ItemKind
	// Area is the warehouse footprint of one unit
	Area() Quantity
	Transport() TransportProfile
	TravelTime() TimeStep

	isItem()
}

type itemBase struct {
	id         string
	name       string
	area       Quantity
	transport  TransportProfile
	travelTime TimeStep
}

func (b *itemBase) ID() string                  { return b.id }
func (b *itemBase) Name() string                { return b.name }
func (b *itemBase) Area() Quantity              { return b.area }
func (b *itemBase) Transport() TransportProfile { return b.transport }
func (b *itemBase) TravelTime() TimeStep        { return b.travelTime }
func (b *itemBase) isItem()                     {}

func newItemBase(id, name string, area Quantity, transport TransportProfile, travelTime TimeStep) (itemBase, error) {
	if id == "" {
		return itemBase{}, fmt.Errorf("item id cannot be empty")
	}
	if area < 0 {
		return itemBase{}, fmt.Errorf("item %s: area cannot be negative, got %d", id, area)
	}
	if travelTime < 0 {
		return itemBase{}, fmt.Errorf("item %s: travel time cannot be negative, got %d", id, travelTime)
	}
	if name == "" {
		name = id
	}
	types := make([]string, len(transport.TransportTypes))
	copy(types, transport.TransportTypes)
	transport.TransportTypes = types
	return itemBase{id: id, name: name, area: area, transport: transport, travelTime: travelTime}, nil
}

// Material is a raw material bought from an external supplier
type Material struct {
	itemBase
}

// NewMaterial creates a validated Material
func NewMaterial(id, name string, area Quantity, transport TransportProfile, travelTime TimeStep) (*Material, error) {
	base, err := newItemBase(id, name, area, transport, travelTime)
	if err != nil {
		return nil, err
	}
	return &Material{itemBase: base}, nil
}

// Kind returns MaterialKind
func (m *Material) Kind() ItemKind { return MaterialKind }

// Product is an item manufactured by a production process
type Product struct {
	itemBase
}

// NewProduct creates a validated Product
func NewProduct(id, name string, area Quantity, transport TransportProfile, travelTime TimeStep) (*Product, error) {
	base, err := newItemBase(id, name, area, transport, travelTime)
	if err != nil {
		return nil, err
	}
	return &Product{itemBase: base}, nil
}

// Kind returns ProductKind
func (p *Product) Kind() ItemKind { return ProductKind }
