package entities

import "fmt"

// MaterialPosition pairs an item with an amount. It is used for warehouse stock lines
// and for production process inputs.
type MaterialPosition struct {
	Item   Item
	Amount Quantity
}

// NewMaterialPosition creates a validated MaterialPosition
func NewMaterialPosition(item Item, amount Quantity) (MaterialPosition, error) {
	if item == nil {
		return MaterialPosition{}, fmt.Errorf("position item cannot be nil")
	}
	if amount < 0 {
		return MaterialPosition{}, fmt.Errorf("position %s: amount cannot be negative, got %d", item.ID(), amount)
	}
	return MaterialPosition{Item: item, Amount: amount}, nil
}

// Equal compares item identity and amount
func (p MaterialPosition) Equal(other MaterialPosition) bool {
	return p.SameItem(other.Item) && p.Amount == other.Amount
}

// SameItem reports whether the position holds the given item
func (p MaterialPosition) SameItem(item Item) bool {
	if p.Item == nil || item == nil {
		return p.Item == nil && item == nil
	}
	return p.Item.ID() == item.ID()
}

// Footprint returns the warehouse area occupied by the position
func (p MaterialPosition) Footprint() Quantity {
	return p.Item.Area() * p.Amount
}

// String renders the position as amount x id
func (p MaterialPosition) String() string {
	if p.Item == nil {
		return fmt.Sprintf("%dx<nil>", p.Amount)
	}
	return fmt.Sprintf("%dx%s", p.Amount, p.Item.ID())
}

// CondensePositions merges positions of the same item, keeping first-seen order
func CondensePositions(positions []MaterialPosition) []MaterialPosition {
	result := make([]MaterialPosition, 0, len(positions))
	index := make(map[string]int, len(positions))
	for _, pos := range positions {
		if i, ok := index[pos.Item.ID()]; ok {
			result[i].Amount += pos.Amount
			continue
		}
		index[pos.Item.ID()] = len(result)
		result = append(result, pos)
	}
	return result
}
