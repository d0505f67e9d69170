package memory

import (
	"fmt"
	"strings"

	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/repositories"
)

// CatalogRepository provides in-memory storage for materials and products. Lookups
// match ids exactly first and fall back to a case-insensitive name match, so
// sources may reference items either way.
type CatalogRepository struct {
	items    []entities.Item
	itemsMap map[string]int
	names    map[string]int
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository(expectedItems int) *CatalogRepository {
	return &CatalogRepository{
		items:    make([]entities.Item, 0, expectedItems),
		itemsMap: make(map[string]int, expectedItems),
		names:    make(map[string]int, expectedItems),
	}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// AddItem adds a material or product; ids must be unique
func (r *CatalogRepository) AddItem(item entities.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if item.Kind() == entities.OrderKind {
		return fmt.Errorf("item %s: orders are not catalog items", item.ID())
	}
	if _, exists := r.itemsMap[item.ID()]; exists {
		return fmt.Errorf("item with id %s already exists", item.ID())
	}
	r.itemsMap[item.ID()] = len(r.items)
	if _, exists := r.names[strings.ToLower(item.Name())]; !exists {
		r.names[strings.ToLower(item.Name())] = len(r.items)
	}
	r.items = append(r.items, item)
	return nil
}

// GetItem returns the item with the given id or name
func (r *CatalogRepository) GetItem(id string) (entities.Item, error) {
	id = strings.TrimSpace(id)
	if index, exists := r.itemsMap[id]; exists {
		return r.items[index], nil
	}
	if index, exists := r.names[strings.ToLower(id)]; exists {
		return r.items[index], nil
	}
	return nil, fmt.Errorf("%w: %s", repositories.ErrUnknownItem, id)
}

// GetAllItems returns all items in insertion order
func (r *CatalogRepository) GetAllItems() []entities.Item {
	return append([]entities.Item(nil), r.items...)
}

// Materials returns the materials in insertion order
func (r *CatalogRepository) Materials() []*entities.Material {
	var materials []*entities.Material
	for _, item := range r.items {
		if m, ok := item.(*entities.Material); ok {
			materials = append(materials, m)
		}
	}
	return materials
}

// Products returns the products in insertion order
func (r *CatalogRepository) Products() []*entities.Product {
	var products []*entities.Product
	for _, item := range r.items {
		if p, ok := item.(*entities.Product); ok {
			products = append(products, p)
		}
	}
	return products
}
