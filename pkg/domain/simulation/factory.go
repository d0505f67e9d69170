package simulation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// RunResult is the outcome of one StartFactory trial
type RunResult struct {
	Income         decimal.Decimal
	CompletionTime entities.TimeStep
	Completed      bool
	CompletedSteps int
	RemainingSteps int
}

// Option configures a Factory
type Option func(*Factory)

// WithLogSettings selects the recorded log categories
func WithLogSettings(settings LogSettings) Option {
	return func(f *Factory) { f.settings = settings }
}

// WithSink forwards recorded events to sink
func WithSink(sink LogSink) Option {
	return func(f *Factory) { f.sink = sink }
}

// Factory owns the resources of one simulation arena, drives the clock and executes
// step sets. A Factory is not safe for concurrent use; parallel trials use clones.
type Factory struct {
	name         string
	warehouse    *Warehouse
	productions  []*Production
	transporters []*Transporter
	drivers      []*Driver
	materials    []*entities.Material
	products     []*entities.Product

	settings LogSettings
	sink     LogSink

	now            entities.TimeStep
	income         decimal.Decimal
	orderTemplates []*entities.Order
	orders         map[string]*entities.Order
	arrivals       map[string]entities.TimeStep
	steps          []*FactoryStep
	log            []LogEvent
}

// NewFactory creates a factory around a warehouse
func NewFactory(name string, warehouse *Warehouse, opts ...Option) *Factory {
	if warehouse == nil {
		warehouse = NewWarehouse(UnlimitedCapacity)
	}
	f := &Factory{
		name:      name,
		warehouse: warehouse,
		settings:  DefaultLogSettings(),
		income:    decimal.Zero,
		orders:    make(map[string]*entities.Order),
		arrivals:  make(map[string]entities.TimeStep),
	}
	warehouse.factory = f
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddProduction registers a production line
func (f *Factory) AddProduction(p *Production) error {
	for _, existing := range f.productions {
		if existing.name == p.name {
			return fmt.Errorf("factory %s: duplicate production %s", f.name, p.name)
		}
	}
	p.attach(f)
	f.productions = append(f.productions, p)
	return nil
}

// AddTransporter registers a transporter
func (f *Factory) AddTransporter(t *Transporter) error {
	for _, existing := range f.transporters {
		if existing.name == t.name {
			return fmt.Errorf("factory %s: duplicate transporter %s", f.name, t.name)
		}
	}
	t.attach(f)
	f.transporters = append(f.transporters, t)
	return nil
}

// AddDriver registers a driver
func (f *Factory) AddDriver(d *Driver) error {
	for _, existing := range f.drivers {
		if existing.id == d.id {
			return fmt.Errorf("factory %s: duplicate driver %s", f.name, d.id)
		}
	}
	d.factory = f
	f.drivers = append(f.drivers, d)
	return nil
}

// AddMaterial registers a material in the static catalog
func (f *Factory) AddMaterial(m *entities.Material) {
	f.materials = append(f.materials, m)
}

// AddProduct registers a product in the static catalog
func (f *Factory) AddProduct(p *entities.Product) {
	f.products = append(f.products, p)
}

func (f *Factory) Name() string                    { return f.name }
func (f *Factory) Warehouse() *Warehouse           { return f.warehouse }
func (f *Factory) Now() entities.TimeStep          { return f.now }
func (f *Factory) Income() decimal.Decimal         { return f.income }
func (f *Factory) Settings() LogSettings           { return f.settings }
func (f *Factory) Productions() []*Production      { return append([]*Production(nil), f.productions...) }
func (f *Factory) Transporters() []*Transporter    { return append([]*Transporter(nil), f.transporters...) }
func (f *Factory) Drivers() []*Driver              { return append([]*Driver(nil), f.drivers...) }
func (f *Factory) Materials() []*entities.Material { return append([]*entities.Material(nil), f.materials...) }
func (f *Factory) Products() []*entities.Product   { return append([]*entities.Product(nil), f.products...) }
func (f *Factory) Steps() []*FactoryStep           { return append([]*FactoryStep(nil), f.steps...) }
func (f *Factory) Log() []LogEvent                 { return append([]LogEvent(nil), f.log...) }

// WorkingOrder returns the trial copy of an order, or nil
func (f *Factory) WorkingOrder(id string) *entities.Order { return f.orders[id] }

// SetLogSettings replaces the log category filter
func (f *Factory) SetLogSettings(settings LogSettings) { f.settings = settings }

// SetSink replaces the log sink; nil disables forwarding
func (f *Factory) SetSink(sink LogSink) { f.sink = sink }

// Material looks up a catalog material by id
func (f *Factory) Material(id string) *entities.Material {
	for _, m := range f.materials {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

// Product looks up a catalog product by id
func (f *Factory) Product(id string) *entities.Product {
	for _, p := range f.products {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// ProductionsFor returns the lines able to produce item, in declaration order
func (f *Factory) ProductionsFor(item entities.Item) []*Production {
	var result []*Production
	for _, p := range f.productions {
		if p.CanProduce(item) {
			result = append(result, p)
		}
	}
	return result
}

// ProcessFor returns the first declared process producing item, or nil
func (f *Factory) ProcessFor(item entities.Item) *entities.ProductionProcess {
	for _, p := range f.productions {
		if process := p.ProcessFor(item); process != nil {
			return process
		}
	}
	return nil
}

// TransportersFor returns the transporters whose constraints fit item, ignoring capacity
func (f *Factory) TransportersFor(item entities.Item) []*Transporter {
	var result []*Transporter
	for _, t := range f.transporters {
		if t.Fits(item) {
			result = append(result, t)
		}
	}
	return result
}

// Reset restores every resource, the clock, income, the working orders and the
// completion state of the installed step set
func (f *Factory) Reset() {
	f.now = 0
	f.income = decimal.Zero
	f.warehouse.Reset()
	for _, p := range f.productions {
		p.Reset()
	}
	for _, t := range f.transporters {
		t.Reset()
	}
	for _, d := range f.drivers {
		d.Reset()
	}
	f.orders = make(map[string]*entities.Order, len(f.orderTemplates))
	for _, o := range f.orderTemplates {
		f.orders[o.ID()] = o.Clone()
	}
	f.arrivals = make(map[string]entities.TimeStep)
	for _, s := range f.steps {
		s.reset()
	}
	f.log = f.log[:0]
}

// StartFactory resets the arena, installs orders and steps, and runs the clock until
// every step is completed or maxTimeSteps is passed. Running out of time is not an
// error; the result then reports the remaining steps.
func (f *Factory) StartFactory(orders []*entities.Order, steps []*FactoryStep, maxTimeSteps entities.TimeStep) (*RunResult, error) {
	if maxTimeSteps < 0 {
		return nil, fmt.Errorf("max time steps cannot be negative, got %d", maxTimeSteps)
	}
	for _, s := range steps {
		if s != nil && s.factory != f {
			return nil, fmt.Errorf("%w: step %d belongs to another factory; use Rebind", ErrInvalidStep, s.seq)
		}
	}
	graph, err := NewPrecedenceGraph(steps)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if seen[o.ID()] {
			return nil, fmt.Errorf("duplicate order %s", o.ID())
		}
		seen[o.ID()] = true
	}

	f.orderTemplates = append(f.orderTemplates[:0], orders...)
	f.steps = append(f.steps[:0], steps...)
	f.Reset()
	for _, s := range f.steps {
		s.depth = graph.Depth(s)
	}
	dispatch := graph.DispatchOrder()

	f.emit(LogEvent{Source: SourceFactory, Resource: f.name, Message: fmt.Sprintf("simulation started with %d steps for %d orders", len(steps), len(orders))})

	remaining := len(dispatch)
	var lastCompletion entities.TimeStep
	for {
		completed, err := f.runTimeStep(dispatch)
		if err != nil {
			return nil, fmt.Errorf("time step %d: %w", f.now, err)
		}
		if completed > 0 {
			remaining -= completed
			lastCompletion = f.now
			f.emit(LogEvent{TimeStep: f.now, Source: SourceWarehouse, Message: f.warehouse.String()})
		}
		if remaining == 0 {
			break
		}
		next, ok := f.nextEventAfter(f.now)
		if !ok || next > maxTimeSteps {
			f.now = maxTimeSteps
			break
		}
		f.now = next
	}

	result := &RunResult{
		Income:         f.income,
		CompletedSteps: len(dispatch) - remaining,
		RemainingSteps: remaining,
		Completed:      remaining == 0,
	}
	if result.Completed {
		result.CompletionTime = lastCompletion
	} else {
		result.CompletionTime = maxTimeSteps
	}
	f.emit(LogEvent{
		TimeStep: f.now,
		Source:   SourceFactory,
		Resource: f.name,
		Message:  fmt.Sprintf("simulation finished: income %s, %d steps remaining", f.income.StringFixed(2), remaining),
	})
	return result, nil
}

// runTimeStep dispatches eligible steps in repeated passes until a pass completes
// nothing, so instantaneous moves cascade within one time step
func (f *Factory) runTimeStep(dispatch []*FactoryStep) (int, error) {
	total := 0
	var blocked map[*FactoryStep]error
	for {
		blocked = make(map[*FactoryStep]error)
		completed := 0
		for _, s := range dispatch {
			if s.completed || s.scheduledAt > f.now || !s.AllPrerequisitesCompleted() {
				continue
			}
			if err := s.Execute(f.now); err != nil {
				if !IsRecoverable(err) {
					return total, fmt.Errorf("step %s: %w", s, err)
				}
				blocked[s] = err
				continue
			}
			completed++
		}
		total += completed
		if completed == 0 {
			break
		}
	}

	for _, s := range dispatch {
		if err, ok := blocked[s]; ok {
			f.emit(LogEvent{
				TimeStep: f.now,
				Source:   SourceStep,
				Resource: s.ResourceName(),
				Message:  fmt.Sprintf("%s pending: %v", s, err),
			})
		}
	}
	return total, nil
}

// nextEventAfter returns the earliest time after now at which a blocked resource frees
// up, a delivery arrives or a pending step becomes due
func (f *Factory) nextEventAfter(now entities.TimeStep) (entities.TimeStep, bool) {
	var next entities.TimeStep
	found := false
	consider := func(t entities.TimeStep) {
		if t > now && (!found || t < next) {
			next = t
			found = true
		}
	}
	for _, p := range f.productions {
		consider(p.blockedUntil)
	}
	for _, t := range f.transporters {
		consider(t.blockedUntil)
	}
	for _, d := range f.drivers {
		consider(d.blockedUntil)
	}
	for _, t := range f.arrivals {
		consider(t)
	}
	for _, s := range f.steps {
		if !s.completed {
			consider(s.scheduledAt)
		}
	}
	return next, found
}

// driverFor returns the pinned driver if it is free, else the first free driver
func (f *Factory) driverFor(now entities.TimeStep, pinned *Driver) (*Driver, error) {
	if pinned != nil {
		if pinned.factory != f {
			return nil, fmt.Errorf("%w: driver %s belongs to another factory", ErrInvalidStep, pinned.id)
		}
		if !pinned.IsAvailable(now) {
			return nil, fmt.Errorf("%w: %s is blocked until %d", ErrDriverUnavailable, pinned.name, pinned.blockedUntil)
		}
		return pinned, nil
	}
	for _, d := range f.drivers {
		if d.IsAvailable(now) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: no free driver at %d", ErrDriverUnavailable, now)
}

// AvailableDriver returns the first driver free at now, or nil
func (f *Factory) AvailableDriver(now entities.TimeStep) *Driver {
	d, err := f.driverFor(now, nil)
	if err != nil {
		return nil
	}
	return d
}

func (f *Factory) orderFor(step *FactoryStep) (*entities.Order, error) {
	if step.item == nil || step.item.Kind() != entities.OrderKind {
		return nil, fmt.Errorf("%w: %s needs an order item", ErrInvalidStep, step.kind)
	}
	order, ok := f.orders[step.item.ID()]
	if !ok {
		return nil, fmt.Errorf("%w: order %s is not part of this run", ErrInvalidStep, step.item.ID())
	}
	return order, nil
}

// performDirect runs steps without an assigned resource: customer pickup and closing
func (f *Factory) performDirect(now entities.TimeStep, step *FactoryStep) error {
	order, err := f.orderFor(step)
	if err != nil {
		return err
	}
	switch step.kind {
	case entities.ConcludeTransportToCustomer:
		if step.amount > order.Remaining() {
			return fmt.Errorf("%w: delivering %d for order %s with %d remaining", ErrInvalidStep, step.amount, order.ID(), order.Remaining())
		}
		pos := entities.MaterialPosition{Item: order.Product(), Amount: step.amount}
		if !f.warehouse.CheckAvailability(pos.Item, pos.Amount) {
			return fmt.Errorf("%w: %s not in stock for order %s", ErrInsufficientStock, pos, order.ID())
		}
		return f.handOver(now, order, pos, now)
	case entities.CloseOrder:
		return f.closeOrder(now, order)
	default:
		return fmt.Errorf("%w: %s needs a resource", ErrInvalidStep, step.kind)
	}
}

// handOver removes delivered goods from stock and deducts them from the order
func (f *Factory) handOver(now entities.TimeStep, order *entities.Order, pos entities.MaterialPosition, arrival entities.TimeStep) error {
	if err := f.warehouse.Remove(pos); err != nil {
		return err
	}
	if err := order.Deduct(pos.Amount); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStep, err)
	}
	if arrival > f.arrivals[order.ID()] {
		f.arrivals[order.ID()] = arrival
	}
	f.emit(LogEvent{
		TimeStep: now,
		Source:   SourceFactory,
		Resource: f.name,
		Message:  fmt.Sprintf("order %s: %s handed over, %d remaining", order.ID(), pos, order.Remaining()),
	})
	return nil
}

func (f *Factory) closeOrder(now entities.TimeStep, order *entities.Order) error {
	if order.Remaining() > 0 {
		return fmt.Errorf("%w: order %s has %d outstanding", ErrOrderNotFulfilled, order.ID(), order.Remaining())
	}
	if arrival := f.arrivals[order.ID()]; now < arrival {
		return fmt.Errorf("%w: order %s arrives at %d", ErrResourceBusy, order.ID(), arrival)
	}
	if err := order.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStep, err)
	}
	f.income = f.income.Add(order.Income())
	f.emit(LogEvent{
		TimeStep: now,
		Source:   SourceFactory,
		Resource: f.name,
		Message:  fmt.Sprintf("order %s closed, income %s", order.ID(), order.Income().StringFixed(2)),
	})
	return nil
}

// Note records a planner message in the factory log at the current time step
func (f *Factory) Note(message string) {
	f.emit(LogEvent{TimeStep: f.now, Source: SourceFactory, Resource: f.name, Message: message})
}

func (f *Factory) emit(event LogEvent) {
	if !f.settings.Allows(event) {
		return
	}
	f.log = append(f.log, event)
	if f.sink != nil {
		f.sink.Emit(event)
	}
}

// Clone builds an independent arena with the same configuration and baseline stock.
// The clone shares the immutable catalog and log settings but has no sink.
func (f *Factory) Clone() *Factory {
	w := NewWarehouse(f.warehouse.capacity)
	w.baseline = f.warehouse.Baseline()
	w.Reset()

	c := NewFactory(f.name, w, WithLogSettings(f.settings))
	for _, p := range f.productions {
		_ = c.AddProduction(p.clone())
	}
	for _, t := range f.transporters {
		_ = c.AddTransporter(t.clone())
	}
	for _, d := range f.drivers {
		_ = c.AddDriver(NewDriver(d.id, d.name))
	}
	c.materials = append(c.materials, f.materials...)
	c.products = append(c.products, f.products...)
	return c
}

// Rebind copies a step set built on another arena onto this factory, resolving
// resources by name and drivers by id
func (f *Factory) Rebind(steps []*FactoryStep) ([]*FactoryStep, error) {
	mapped := make(map[*FactoryStep]*FactoryStep, len(steps))
	result := make([]*FactoryStep, len(steps))
	for i, s := range steps {
		c := &FactoryStep{
			factory:     f,
			seq:         s.seq,
			item:        s.item,
			amount:      s.amount,
			kind:        s.kind,
			scheduledAt: s.scheduledAt,
		}
		if s.resource != nil {
			r, err := f.resourceNamed(s.resource)
			if err != nil {
				return nil, err
			}
			c.resource = r
		}
		if s.driver != nil {
			c.driver = f.driverByID(s.driver.id)
			if c.driver == nil {
				return nil, fmt.Errorf("%w: unknown driver %s", ErrInvalidStep, s.driver.id)
			}
		}
		mapped[s] = c
		result[i] = c
	}
	for i, s := range steps {
		for _, p := range s.prerequisites {
			mp, ok := mapped[p]
			if !ok {
				return nil, fmt.Errorf("%w: step %d depends on step %d", ErrUnknownPrerequisite, s.seq, p.seq)
			}
			result[i].prerequisites = append(result[i].prerequisites, mp)
		}
	}
	return result, nil
}

func (f *Factory) resourceNamed(r Resource) (Resource, error) {
	switch r.(type) {
	case *Production:
		for _, p := range f.productions {
			if p.name == r.Name() {
				return p, nil
			}
		}
	case *Transporter:
		for _, t := range f.transporters {
			if t.name == r.Name() {
				return t, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unknown resource %s", ErrInvalidStep, r.Name())
}

func (f *Factory) driverByID(id string) *Driver {
	for _, d := range f.drivers {
		if d.id == id {
			return d
		}
	}
	return nil
}
