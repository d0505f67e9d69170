package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order is a customer order for an amount of one item. Identity and the requested
// position are immutable; the remaining amount changes only through Deduct.
type Order struct {
	itemBase
	orderNr   string
	position  MaterialPosition
	income    decimal.Decimal
	remaining Quantity
	closed    bool
}

// NewOrder creates a validated Order. Transport attributes are inherited from the
// ordered item; a travelTime of zero inherits the item's travel time as well.
func NewOrder(orderNr string, position MaterialPosition, income decimal.Decimal, travelTime TimeStep) (*Order, error) {
	if orderNr == "" {
		return nil, fmt.Errorf("order number cannot be empty")
	}
	if position.Item == nil {
		return nil, fmt.Errorf("order %s: item cannot be nil", orderNr)
	}
	if position.Item.Kind() == OrderKind {
		return nil, fmt.Errorf("order %s: cannot order another order", orderNr)
	}
	if position.Amount <= 0 {
		return nil, fmt.Errorf("order %s: amount must be positive, got %d", orderNr, position.Amount)
	}
	if income.IsNegative() {
		return nil, fmt.Errorf("order %s: income cannot be negative, got %s", orderNr, income)
	}
	if travelTime == 0 {
		travelTime = position.Item.TravelTime()
	}

	base, err := newItemBase(orderNr, "order "+orderNr, position.Item.Area(), position.Item.Transport(), travelTime)
	if err != nil {
		return nil, err
	}
	return &Order{
		itemBase:  base,
		orderNr:   orderNr,
		position:  position,
		income:    income,
		remaining: position.Amount,
	}, nil
}

// Kind returns OrderKind
func (o *Order) Kind() ItemKind { return OrderKind }

// OrderNr returns the customer order number
func (o *Order) OrderNr() string { return o.orderNr }

// Position returns the requested item and amount
func (o *Order) Position() MaterialPosition { return o.position }

// Product returns the ordered item
func (o *Order) Product() Item { return o.position.Item }

// Income returns the income booked when the order is closed
func (o *Order) Income() decimal.Decimal { return o.income }

// Remaining returns the amount not yet delivered
func (o *Order) Remaining() Quantity { return o.remaining }

// Delivered returns the amount delivered so far
func (o *Order) Delivered() Quantity { return o.position.Amount - o.remaining }

// Closed reports whether the order income has been booked
func (o *Order) Closed() bool { return o.closed }

// Deduct records a delivery of amount units
func (o *Order) Deduct(amount Quantity) error {
	if amount <= 0 {
		return fmt.Errorf("order %s: deduction must be positive, got %d", o.orderNr, amount)
	}
	if amount > o.remaining {
		return fmt.Errorf("order %s: cannot deduct %d, only %d remaining", o.orderNr, amount, o.remaining)
	}
	o.remaining -= amount
	return nil
}

// Close marks the order as settled. Only fully delivered orders can be closed, and only once.
func (o *Order) Close() error {
	if o.closed {
		return fmt.Errorf("order %s: already closed", o.orderNr)
	}
	if o.remaining > 0 {
		return fmt.Errorf("order %s: %d units still outstanding", o.orderNr, o.remaining)
	}
	o.closed = true
	return nil
}

// Clone returns an independent copy in its initial state
func (o *Order) Clone() *Order {
	clone := *o
	clone.transport.TransportTypes = append([]string(nil), o.transport.TransportTypes...)
	clone.remaining = o.position.Amount
	clone.closed = false
	return &clone
}
