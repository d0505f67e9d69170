package simulation

import (
	"fmt"
	"strings"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// UnlimitedCapacity disables the warehouse area limit
const UnlimitedCapacity entities.Quantity = -1

// Warehouse holds the factory stock. The summed footprint of all stock lines never
// exceeds the capacity.
type Warehouse struct {
	factory  *Factory
	capacity entities.Quantity
	baseline []entities.MaterialPosition
	stock    []entities.MaterialPosition
}

// NewWarehouse creates an empty warehouse with the given area capacity
func NewWarehouse(capacity entities.Quantity) *Warehouse {
	if capacity < 0 {
		capacity = UnlimitedCapacity
	}
	return &Warehouse{capacity: capacity}
}

// Capacity returns the area capacity, or UnlimitedCapacity
func (w *Warehouse) Capacity() entities.Quantity {
	return w.capacity
}

// Unlimited reports whether the warehouse has no area limit
func (w *Warehouse) Unlimited() bool {
	return w.capacity == UnlimitedCapacity
}

// Used returns the occupied area
func (w *Warehouse) Used() entities.Quantity {
	var used entities.Quantity
	for _, pos := range w.stock {
		used += pos.Footprint()
	}
	return used
}

// Stock returns a copy of the current stock lines
func (w *Warehouse) Stock() []entities.MaterialPosition {
	return append([]entities.MaterialPosition(nil), w.stock...)
}

// Baseline returns a copy of the seeded stock
func (w *Warehouse) Baseline() []entities.MaterialPosition {
	return append([]entities.MaterialPosition(nil), w.baseline...)
}

// Amount returns the stocked amount of an item
func (w *Warehouse) Amount(item entities.Item) entities.Quantity {
	if i := w.indexOf(item); i >= 0 {
		return w.stock[i].Amount
	}
	return 0
}

// CheckAvailability reports whether at least amount units of item are in stock
func (w *Warehouse) CheckAvailability(item entities.Item, amount entities.Quantity) bool {
	return w.Amount(item) >= amount
}

// Seed replaces the baseline stock that Reset restores
func (w *Warehouse) Seed(positions []entities.MaterialPosition) error {
	var area entities.Quantity
	for _, pos := range positions {
		if pos.Item == nil || pos.Amount < 0 {
			return fmt.Errorf("invalid seed position %s", pos)
		}
		area += pos.Footprint()
	}
	if !w.Unlimited() && area > w.capacity {
		return fmt.Errorf("%w: seed stock needs %d area, capacity is %d", ErrCapacityExceeded, area, w.capacity)
	}
	w.baseline = entities.CondensePositions(positions)
	w.Reset()
	return nil
}

// Reset restores the seeded baseline stock
func (w *Warehouse) Reset() {
	w.stock = append(w.stock[:0], w.baseline...)
}

// Add stores a position. It fails with ErrCapacityExceeded and leaves the stock
// unchanged if the position does not fit.
func (w *Warehouse) Add(pos entities.MaterialPosition) error {
	if pos.Item == nil || pos.Amount < 0 {
		return fmt.Errorf("%w: cannot store %s", ErrInvalidStep, pos)
	}
	if pos.Amount == 0 {
		return nil
	}
	if !w.Unlimited() {
		used := w.Used()
		if used+pos.Footprint() > w.capacity {
			return fmt.Errorf("%w: adding %s needs %d area, %d of %d used",
				ErrCapacityExceeded, pos, pos.Footprint(), used, w.capacity)
		}
	}

	if i := w.indexOf(pos.Item); i >= 0 {
		w.stock[i].Amount += pos.Amount
	} else {
		w.stock = append(w.stock, pos)
	}
	w.record(fmt.Sprintf("+%s", pos))
	return nil
}

// Remove takes a position out of stock. It fails with ErrInsufficientStock and leaves
// the stock unchanged if not enough units are stored.
func (w *Warehouse) Remove(pos entities.MaterialPosition) error {
	return w.RemoveAll([]entities.MaterialPosition{pos})
}

// RemoveAll removes every position or none of them
func (w *Warehouse) RemoveAll(positions []entities.MaterialPosition) error {
	needed := entities.CondensePositions(positions)
	for _, pos := range needed {
		if pos.Item == nil || pos.Amount < 0 {
			return fmt.Errorf("%w: cannot remove %s", ErrInvalidStep, pos)
		}
		if have := w.Amount(pos.Item); have < pos.Amount {
			return fmt.Errorf("%w: need %s, have %d", ErrInsufficientStock, pos, have)
		}
	}

	for _, pos := range needed {
		i := w.indexOf(pos.Item)
		if i < 0 {
			continue
		}
		w.stock[i].Amount -= pos.Amount
		if w.stock[i].Amount == 0 {
			w.stock = append(w.stock[:i], w.stock[i+1:]...)
		}
		w.record(fmt.Sprintf("-%s", pos))
	}
	return nil
}

// String renders the stock as a comma separated list
func (w *Warehouse) String() string {
	if len(w.stock) == 0 {
		return "empty"
	}
	parts := make([]string, len(w.stock))
	for i, pos := range w.stock {
		parts[i] = pos.String()
	}
	return strings.Join(parts, ", ")
}

func (w *Warehouse) indexOf(item entities.Item) int {
	for i, pos := range w.stock {
		if pos.SameItem(item) {
			return i
		}
	}
	return -1
}

func (w *Warehouse) record(message string) {
	if w.factory == nil {
		return
	}
	w.factory.emit(LogEvent{
		TimeStep: w.factory.now,
		Source:   SourceWarehouseStock,
		Message:  fmt.Sprintf("%s (used %d)", message, w.Used()),
	})
}
