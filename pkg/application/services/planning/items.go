package planning

import (
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// Intent tags what a planning item is for
type Intent int

const (
	Acquire Intent = iota
	Produce
	Deliver
)

// String method for Intent enum
func (i Intent) String() string {
	switch i {
	case Acquire:
		return "Acquire"
	case Produce:
		return "Produce"
	case Deliver:
		return "Deliver"
	default:
		return "Unknown"
	}
}

// Item is an item and amount tagged with the reason it is planned
type Item struct {
	Item    entities.Item
	Amount  entities.Quantity
	Intent  Intent
	OrderNr string
}

// ProcessItem is one process run planned for an order, with its estimated window
// and its depth in the order's process chain (the ordered product is depth 0)
type ProcessItem struct {
	Process    *entities.ProductionProcess
	Production *simulation.Production
	OrderNr    string
	Depth      int
	Batches    entities.Quantity
	Start      entities.TimeStep
	End        entities.TimeStep

	Supplies []entities.MaterialPosition
	Children []*ProcessItem
}

// LimitOrders returns the first limit orders; a limit of 0 or less keeps them all
func LimitOrders(orders []*entities.Order, limit int) []*entities.Order {
	if limit <= 0 || limit >= len(orders) {
		return orders
	}
	return orders[:limit]
}
