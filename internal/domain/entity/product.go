package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold unidades por debajo de las cuales un producto se considera con stock bajo.
const LowStockThreshold = 10

// Product producto del catálogo de una tienda. Category guarda el nombre de la categoría.
type Product struct {
	ID            string
	StoreID       string
	Name          string
	Description   string
	Price         decimal.Decimal
	ImageURL      string
	Category      string
	StockQuantity int
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock está por debajo del umbral.
func (p *Product) IsLowStock(threshold int) bool {
	return p.StockQuantity < threshold
}
