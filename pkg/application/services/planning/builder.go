package planning

import (
	"fmt"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// maxChainDepth guards against cyclic process catalogs
const maxChainDepth = 64

// Options tune how orders are expanded
type Options struct {
	// UseStock reserves seeded warehouse stock before planning production or purchases
	UseStock bool
	// CondenseSupplies buys each material once per order instead of once per process
	CondenseSupplies bool
}

// Builder expands orders into a step plan for one factory arena. Orders are added one
// at a time; an order that cannot be serviced leaves the plan untouched.
type Builder struct {
	factory *simulation.Factory
	plan    *simulation.Plan
	policy  Policy
	options Options
	records *Records

	stock     map[string]entities.Quantity
	items     []Item
	processes []*ProcessItem
}

// NewBuilder starts an empty plan on the factory
func NewBuilder(factory *simulation.Factory, policy Policy, options Options) *Builder {
	b := &Builder{
		factory: factory,
		plan:    factory.NewPlan(),
		policy:  policy,
		options: options,
		records: NewRecords(),
		stock:   make(map[string]entities.Quantity),
	}
	if options.UseStock {
		for _, pos := range factory.Warehouse().Baseline() {
			b.stock[pos.Item.ID()] += pos.Amount
		}
	}
	return b
}

// Steps returns the planned steps in insertion order
func (b *Builder) Steps() []*simulation.FactoryStep { return b.plan.Steps() }

// Items returns the planning items of every accepted order
func (b *Builder) Items() []Item { return append([]Item(nil), b.items...) }

// Processes returns the process runs of every accepted order, deepest first per order
func (b *Builder) Processes() []*ProcessItem {
	return append([]*ProcessItem(nil), b.processes...)
}

// Records returns the resource planning records
func (b *Builder) Records() *Records { return b.records }

// AddOrder plans the acquisition, production and delivery steps of one order
func (b *Builder) AddOrder(order *entities.Order) error {
	mark := b.plan.Len()
	records := b.records.Snapshot()
	stock := make(map[string]entities.Quantity, len(b.stock))
	for k, v := range b.stock {
		stock[k] = v
	}
	items, processes := len(b.items), len(b.processes)

	if err := b.addOrder(order); err != nil {
		b.plan.Truncate(mark)
		b.records.Restore(records)
		b.stock = stock
		b.items = b.items[:items]
		b.processes = b.processes[:processes]
		return fmt.Errorf("order %s: %w", order.OrderNr(), err)
	}
	return nil
}

type supplied struct {
	ready   entities.TimeStep
	unloads []*simulation.FactoryStep
}

func (b *Builder) addOrder(order *entities.Order) error {
	item := order.Product()
	need := b.takeStock(item, order.Position().Amount)

	var ready entities.TimeStep
	var prereqs []*simulation.FactoryStep
	if need > 0 {
		switch item.Kind() {
		case entities.MaterialKind:
			s, err := b.acquire(entities.MaterialPosition{Item: item, Amount: need}, order.OrderNr())
			if err != nil {
				return err
			}
			ready, prereqs = s.ready, s.unloads
		case entities.ProductKind:
			root, err := b.expand(item, need, 0, order.OrderNr(), map[string]bool{})
			if err != nil {
				return err
			}
			var condensed map[string]supplied
			if b.options.CondenseSupplies {
				if condensed, err = b.acquireCondensed(root, order.OrderNr()); err != nil {
					return err
				}
			}
			if ready, prereqs, err = b.schedule(root, condensed); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: cannot fulfil %s", simulation.ErrNoSupplierForItem, item.ID())
		}
	}

	return b.deliver(order, ready, prereqs)
}

// takeStock reserves up to amount units of seeded stock and returns the shortfall
func (b *Builder) takeStock(item entities.Item, amount entities.Quantity) entities.Quantity {
	have := b.stock[item.ID()]
	if have <= 0 {
		return amount
	}
	if have >= amount {
		b.stock[item.ID()] = have - amount
		return 0
	}
	b.stock[item.ID()] = 0
	return amount - have
}

// expand walks the process chain of a product depth first. Output is rounded up to
// whole batches; the surplus stays in the warehouse.
func (b *Builder) expand(product entities.Item, amount entities.Quantity, depth int, orderNr string, path map[string]bool) (*ProcessItem, error) {
	if path[product.ID()] || depth > maxChainDepth {
		return nil, fmt.Errorf("%w: cyclic process chain at %s", simulation.ErrNoSupplierForItem, product.ID())
	}
	candidates := b.factory.ProductionsFor(product)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no production makes %s", simulation.ErrNoSupplierForItem, product.ID())
	}
	line := b.policy.ChooseProduction(candidates, b.records)
	process := line.ProcessFor(product)
	pi := &ProcessItem{
		Process:    process,
		Production: line,
		OrderNr:    orderNr,
		Depth:      depth,
		Batches:    process.BatchesFor(amount),
	}
	b.items = append(b.items, Item{Item: product, Amount: pi.Batches * process.BatchSize, Intent: Produce, OrderNr: orderNr})

	path[product.ID()] = true
	defer delete(path, product.ID())

	for _, in := range process.InputsFor(pi.Batches) {
		need := b.takeStock(in.Item, in.Amount)
		if need == 0 {
			continue
		}
		switch in.Item.Kind() {
		case entities.MaterialKind:
			pi.Supplies = append(pi.Supplies, entities.MaterialPosition{Item: in.Item, Amount: need})
		case entities.ProductKind:
			child, err := b.expand(in.Item, need, depth+1, orderNr, path)
			if err != nil {
				return nil, err
			}
			pi.Children = append(pi.Children, child)
		default:
			return nil, fmt.Errorf("%w: %s is not a process input", simulation.ErrInvalidStep, in.Item.ID())
		}
	}
	return pi, nil
}

// schedule plans children first, then supplies, then one four-step chain per batch.
// It returns the estimated finish and the steps that store the output.
func (b *Builder) schedule(pi *ProcessItem, condensed map[string]supplied) (entities.TimeStep, []*simulation.FactoryStep, error) {
	var ready entities.TimeStep
	var prereqs []*simulation.FactoryStep

	for _, child := range pi.Children {
		childReady, stored, err := b.schedule(child, condensed)
		if err != nil {
			return 0, nil, err
		}
		ready = maxTime(ready, childReady)
		prereqs = append(prereqs, stored...)
	}

	for _, pos := range pi.Supplies {
		s, ok := condensed[pos.Item.ID()]
		if !ok {
			var err error
			if s, err = b.acquire(pos, pi.OrderNr); err != nil {
				return 0, nil, err
			}
		}
		ready = maxTime(ready, s.ready)
		prereqs = append(prereqs, s.unloads...)
	}

	process, line := pi.Process, pi.Production
	stored := make([]*simulation.FactoryStep, 0, pi.Batches)
	for batch := entities.Quantity(0); batch < pi.Batches; batch++ {
		start := b.records.ReserveProduction(line, ready, process.ProductionTime)
		done := start + process.ProductionTime
		if batch == 0 {
			pi.Start = start
		}
		pi.End = done

		in := b.plan.Add(entities.MoveToInputBuffer, process.Output, process.BatchSize, line, start, prereqs...)
		produce := b.plan.Add(entities.Produce, process.Output, process.BatchSize, line, start, in)
		out := b.plan.Add(entities.MoveToOutputBuffer, process.Output, process.BatchSize, line, done, produce)
		stored = append(stored, b.plan.Add(entities.MoveToWarehouse, process.Output, process.BatchSize, line, done, out))
	}
	if pi.Batches == 0 {
		pi.Start, pi.End = ready, ready
	}

	b.processes = append(b.processes, pi)
	return pi.End, stored, nil
}

// acquireCondensed buys every material of the order's process tree in one go
func (b *Builder) acquireCondensed(root *ProcessItem, orderNr string) (map[string]supplied, error) {
	var all []entities.MaterialPosition
	var walk func(pi *ProcessItem)
	walk = func(pi *ProcessItem) {
		for _, child := range pi.Children {
			walk(child)
		}
		all = append(all, pi.Supplies...)
	}
	walk(root)

	result := make(map[string]supplied)
	for _, pos := range entities.CondensePositions(all) {
		s, err := b.acquire(pos, orderNr)
		if err != nil {
			return nil, err
		}
		result[pos.Item.ID()] = s
	}
	return result, nil
}

// acquire splits a purchase into transporter-sized trips
func (b *Builder) acquire(pos entities.MaterialPosition, orderNr string) (supplied, error) {
	material := pos.Item
	var candidates []*simulation.Transporter
	for _, t := range b.factory.TransportersFor(material) {
		if t.CanCarryMaterial(material, 1) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return supplied{}, fmt.Errorf("%w: no transporter can fetch %s", simulation.ErrNoSupplierForItem, material.ID())
	}
	drivers := b.factory.Drivers()
	if len(drivers) == 0 {
		return supplied{}, fmt.Errorf("%w: nobody can drive to the supplier of %s", simulation.ErrDriverUnavailable, material.ID())
	}

	var s supplied
	for remaining := pos.Amount; remaining > 0; {
		t := b.policy.ChooseTransporter(candidates, remaining, b.records)
		chunk := min(remaining, t.Capacity())
		d := b.policy.ChooseDriver(t, drivers, b.records)
		start := maxTime(b.records.TransporterFree(t), b.records.DriverFree(d))
		arrival := start + material.TravelTime()
		b.records.BlockTransporter(t, arrival)
		b.records.BlockDriver(d, arrival)

		fetch := b.plan.Add(entities.AcquireFromSupplier, material, chunk, t, start).WithDriver(d)
		s.unloads = append(s.unloads, b.plan.Add(entities.MoveTransporterToWarehouse, material, chunk, t, arrival, fetch))
		s.ready = maxTime(s.ready, arrival)
		b.items = append(b.items, Item{Item: material, Amount: chunk, Intent: Acquire, OrderNr: orderNr})
		remaining -= chunk
	}
	return s, nil
}

// deliver hands the order to fitting transporters, or to the customer directly when
// the factory has no transporters at all, and closes it
func (b *Builder) deliver(order *entities.Order, ready entities.TimeStep, prereqs []*simulation.FactoryStep) error {
	amount := order.Position().Amount
	b.items = append(b.items, Item{Item: order, Amount: amount, Intent: Deliver, OrderNr: order.OrderNr()})

	if len(b.factory.Transporters()) == 0 {
		conclude := b.plan.Add(entities.ConcludeTransportToCustomer, order, amount, nil, ready, prereqs...)
		b.plan.Add(entities.CloseOrder, order, amount, nil, ready, conclude)
		return nil
	}

	var candidates []*simulation.Transporter
	for _, t := range b.factory.TransportersFor(order) {
		if t.CanCarryOrder(order, 1) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no transporter can deliver %s", simulation.ErrTransportConstraintViolation, order.Product().ID())
	}
	drivers := b.factory.Drivers()
	if len(drivers) == 0 {
		return fmt.Errorf("%w: nobody can deliver order %s", simulation.ErrDriverUnavailable, order.OrderNr())
	}

	var concludes []*simulation.FactoryStep
	var last *simulation.Transporter
	var arrival entities.TimeStep
	for remaining := amount; remaining > 0; {
		t := b.policy.ChooseTransporter(candidates, remaining, b.records)
		chunk := min(remaining, t.Capacity())
		d := b.policy.ChooseDriver(t, drivers, b.records)
		start := maxTime(ready, maxTime(b.records.TransporterFree(t), b.records.DriverFree(d)))
		back := start + order.TravelTime()
		b.records.BlockTransporter(t, back)
		b.records.BlockDriver(d, back)

		concludes = append(concludes, b.plan.Add(entities.ConcludeTransportToCustomer, order, chunk, t, start, prereqs...).WithDriver(d))
		arrival = maxTime(arrival, back)
		last = t
		remaining -= chunk
	}
	b.plan.Add(entities.CloseOrder, order, amount, last, arrival, concludes...)
	return nil
}
