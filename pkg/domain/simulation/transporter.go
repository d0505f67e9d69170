package simulation

import (
	"fmt"
	"strings"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// Transporter moves materials from suppliers into the warehouse and products to customers
type Transporter struct {
	resourceLog
	name          string
	transportType string
	engine        string
	zone          string
	capacity      entities.Quantity

	blockedUntil entities.TimeStep
	cargo        *entities.MaterialPosition
}

var _ Resource = (*Transporter)(nil)

// NewTransporter creates a validated Transporter
func NewTransporter(name, transportType, engine, zone string, capacity entities.Quantity) (*Transporter, error) {
	if name == "" {
		return nil, fmt.Errorf("transporter name cannot be empty")
	}
	if transportType == "" {
		return nil, fmt.Errorf("transporter %s: transport type cannot be empty", name)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("transporter %s: capacity must be positive, got %d", name, capacity)
	}
	return &Transporter{
		name:          name,
		transportType: transportType,
		engine:        engine,
		zone:          zone,
		capacity:      capacity,
	}, nil
}

func (t *Transporter) Name() string                    { return t.name }
func (t *Transporter) TransportType() string           { return t.transportType }
func (t *Transporter) Engine() string                  { return t.engine }
func (t *Transporter) Zone() string                    { return t.zone }
func (t *Transporter) Capacity() entities.Quantity     { return t.capacity }
func (t *Transporter) BlockedUntil() entities.TimeStep { return t.blockedUntil }

// Loaded reports whether the transporter carries cargo that has not been unloaded
func (t *Transporter) Loaded() bool { return t.cargo != nil }

// Fits reports whether the transporter satisfies the zone, engine and transport-type
// constraints of an item
func (t *Transporter) Fits(item entities.Item) bool {
	profile := item.Transport()
	if profile.Zone != "" && t.zone != "" && !strings.EqualFold(profile.Zone, t.zone) {
		return false
	}
	return profile.AcceptsEngine(t.engine) && profile.AcceptsType(t.transportType)
}

// CanCarryMaterial reports whether amount units of a material can legally and
// physically be carried in one trip
func (t *Transporter) CanCarryMaterial(item entities.Item, amount entities.Quantity) bool {
	if item == nil || item.Kind() != entities.MaterialKind {
		return false
	}
	return amount <= t.capacity && t.Fits(item)
}

// CanCarryOrder reports whether amount units of an order can be delivered in one trip
func (t *Transporter) CanCarryOrder(order *entities.Order, amount entities.Quantity) bool {
	if order == nil {
		return false
	}
	return amount <= t.capacity && t.Fits(order)
}

// Reset unloads the transporter and clears its blocked marker
func (t *Transporter) Reset() {
	t.blockedUntil = 0
	t.cargo = nil
	t.clear()
}

// PerformWork applies one transport step
func (t *Transporter) PerformWork(now entities.TimeStep, step *FactoryStep) error {
	switch step.Kind() {
	case entities.AcquireFromSupplier:
		return t.acquire(now, step)
	case entities.MoveTransporterToWarehouse:
		return t.unload(now, step)
	case entities.ConcludeTransportToCustomer:
		order, err := t.factory.orderFor(step)
		if err != nil {
			return err
		}
		return t.deliver(now, step, order)
	case entities.CloseOrder:
		order, err := t.factory.orderFor(step)
		if err != nil {
			return err
		}
		return t.factory.closeOrder(now, order)
	default:
		return fmt.Errorf("%w: transporter %s cannot perform %s", ErrInvalidStep, t.name, step.Kind())
	}
}

func (t *Transporter) busy(now entities.TimeStep) error {
	if now < t.blockedUntil {
		return fmt.Errorf("%w: %s is travelling until %d", ErrResourceBusy, t.name, t.blockedUntil)
	}
	if t.cargo != nil {
		return fmt.Errorf("%w: %s still carries %s", ErrResourceBusy, t.name, *t.cargo)
	}
	return nil
}

func (t *Transporter) acquire(now entities.TimeStep, step *FactoryStep) error {
	material := step.Item()
	if material.Kind() != entities.MaterialKind {
		return fmt.Errorf("%w: %s is not bought from a supplier: %w", ErrInvalidStep, material.ID(), ErrNoSupplierForItem)
	}
	if err := t.busy(now); err != nil {
		return err
	}
	if !t.CanCarryMaterial(material, step.Amount()) {
		return fmt.Errorf("%w: %s cannot carry %d x %s", ErrTransportConstraintViolation, t.name, step.Amount(), material.ID())
	}
	driver, err := t.factory.driverFor(now, step.Driver())
	if err != nil {
		return err
	}
	if err := driver.Assign(now, material.TravelTime()); err != nil {
		return err
	}

	t.blockedUntil = now + material.TravelTime()
	t.cargo = &entities.MaterialPosition{Item: material, Amount: step.Amount()}
	t.record(SourceTransporter, t.name, fmt.Sprintf("fetching %s with %s, back at %d", t.cargo, driver.Name(), t.blockedUntil))
	return nil
}

func (t *Transporter) unload(now entities.TimeStep, step *FactoryStep) error {
	if t.cargo == nil || !t.cargo.SameItem(step.Item()) {
		return fmt.Errorf("%w: %s carries no %s", ErrInsufficientStock, t.name, step.Item().ID())
	}
	if now < t.blockedUntil {
		return fmt.Errorf("%w: %s arrives at %d", ErrResourceBusy, t.name, t.blockedUntil)
	}
	if err := t.factory.warehouse.Add(*t.cargo); err != nil {
		return fmt.Errorf("unloading %s: %w", t.name, err)
	}

	t.record(SourceTransporter, t.name, fmt.Sprintf("unloaded %s", t.cargo))
	t.cargo = nil
	return nil
}

func (t *Transporter) deliver(now entities.TimeStep, step *FactoryStep, order *entities.Order) error {
	amount := step.Amount()
	if err := t.busy(now); err != nil {
		return err
	}
	if !t.CanCarryOrder(order, amount) {
		return fmt.Errorf("%w: %s cannot deliver %d x %s", ErrTransportConstraintViolation, t.name, amount, order.ID())
	}
	if amount > order.Remaining() {
		return fmt.Errorf("%w: delivering %d for order %s with %d remaining", ErrInvalidStep, amount, order.ID(), order.Remaining())
	}
	pos := entities.MaterialPosition{Item: order.Product(), Amount: amount}
	if !t.factory.warehouse.CheckAvailability(pos.Item, pos.Amount) {
		return fmt.Errorf("%w: %s not in stock for order %s", ErrInsufficientStock, pos, order.ID())
	}
	driver, err := t.factory.driverFor(now, step.Driver())
	if err != nil {
		return err
	}
	if err := driver.Assign(now, order.TravelTime()); err != nil {
		return err
	}

	if err := t.factory.handOver(now, order, pos, now+order.TravelTime()); err != nil {
		return err
	}
	t.blockedUntil = now + order.TravelTime()
	t.record(SourceTransporter, t.name, fmt.Sprintf("delivering %s for order %s with %s, arrives at %d", pos, order.ID(), driver.Name(), t.blockedUntil))
	return nil
}

func (t *Transporter) clone() *Transporter {
	c, _ := NewTransporter(t.name, t.transportType, t.engine, t.zone, t.capacity)
	return c
}
