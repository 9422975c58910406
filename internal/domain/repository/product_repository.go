package repository

import (
	"context"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos. Campos vacíos no filtran.
type ProductFilter struct {
	Category      string
	Search        string // ILIKE sobre name
	IsAvailable   *bool
	LowStockBelow int // > 0: solo stock_quantity < LowStockBelow
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, storeID string, filter ProductFilter) ([]*entity.Product, error)
}
