package simulation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// Instance pairs one factory configuration with an order list. It is the input of
// every scheduler and is compared by content.
type Instance struct {
	factory     *Factory
	orders      []*entities.Order
	fingerprint string
}

// NewInstance validates the order list against the factory catalog
func NewInstance(factory *Factory, orders []*entities.Order) (*Instance, error) {
	if factory == nil {
		return nil, fmt.Errorf("instance factory cannot be nil")
	}
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if o == nil {
			return nil, fmt.Errorf("instance order cannot be nil")
		}
		if seen[o.ID()] {
			return nil, fmt.Errorf("duplicate order %s", o.ID())
		}
		seen[o.ID()] = true
	}

	inst := &Instance{
		factory: factory,
		orders:  append([]*entities.Order(nil), orders...),
	}
	inst.fingerprint = inst.describe()
	return inst, nil
}

// Factory returns the arena of this instance
func (i *Instance) Factory() *Factory { return i.factory }

// Orders returns the orders in arrival order
func (i *Instance) Orders() []*entities.Order {
	return append([]*entities.Order(nil), i.orders...)
}

// Fingerprint is a content hash of the configuration and orders
func (i *Instance) Fingerprint() string { return i.fingerprint }

// Equal compares two instances by content
func (i *Instance) Equal(other *Instance) bool {
	return other != nil && i.fingerprint == other.fingerprint
}

// Clone returns an instance with an independent arena and the same orders
func (i *Instance) Clone() *Instance {
	return &Instance{
		factory:     i.factory.Clone(),
		orders:      i.orders,
		fingerprint: i.fingerprint,
	}
}

func (i *Instance) describe() string {
	var b strings.Builder
	f := i.factory
	fmt.Fprintf(&b, "factory %s capacity %d\n", f.name, f.warehouse.capacity)
	for _, pos := range f.warehouse.baseline {
		fmt.Fprintf(&b, "stock %s\n", pos)
	}
	for _, m := range f.materials {
		writeItem(&b, m)
	}
	for _, p := range f.products {
		writeItem(&b, p)
	}
	for _, p := range f.productions {
		fmt.Fprintf(&b, "production %s %d/%d\n", p.name, p.inputCapacity, p.outputCapacity)
		for _, process := range p.processes {
			fmt.Fprintf(&b, "  process %s -> %s time %d batch %d inputs %v\n",
				process.ID, process.Output.ID(), process.ProductionTime, process.BatchSize, process.Inputs)
		}
	}
	for _, t := range f.transporters {
		fmt.Fprintf(&b, "transporter %s %s %s %s %d\n", t.name, t.transportType, t.engine, t.zone, t.capacity)
	}
	for _, d := range f.drivers {
		fmt.Fprintf(&b, "driver %s %s\n", d.id, d.name)
	}
	for _, o := range i.orders {
		fmt.Fprintf(&b, "order %s %s income %s travel %d\n", o.OrderNr(), o.Position(), o.Income().String(), o.TravelTime())
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeItem(b *strings.Builder, item entities.Item) {
	t := item.Transport()
	fmt.Fprintf(b, "%s %s %q area %d travel %d zone %s engine %s types %s\n",
		item.Kind(), item.ID(), item.Name(), item.Area(), item.TravelTime(), t.Zone, t.Engine, strings.Join(t.TransportTypes, ","))
}
