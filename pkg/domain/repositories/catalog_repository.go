package repositories

import "github.com/vsinha/factorysim/pkg/domain/entities"

// CatalogRepository provides access to the materials and products an instance is
// built from
type CatalogRepository interface {
	AddItem(item entities.Item) error
	GetItem(id string) (entities.Item, error)
	GetAllItems() []entities.Item
	Materials() []*entities.Material
	Products() []*entities.Product
}
