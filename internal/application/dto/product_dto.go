package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body de POST /api/products.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"max=1000"`
	Price         decimal.Decimal `json:"price" validate:"decimal_gte0"`
	ImageURL      string          `json:"image_url" validate:"omitempty,url"`
	Category      string          `json:"category" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	IsAvailable   *bool           `json:"is_available"`
}

// UpdateProductRequest body de PUT /api/products/:id. Campos nil no se modifican.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=1000"`
	Price         *decimal.Decimal `json:"price" validate:"omitempty,decimal_gte0"`
	ImageURL      *string          `json:"image_url" validate:"omitempty"`
	Category      *string          `json:"category" validate:"omitempty,min=1"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,min=0"`
	IsAvailable   *bool            `json:"is_available"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	Category    string `query:"category"`
	Search      string `query:"search" validate:"omitempty,max=100"`
	IsAvailable string `query:"is_available" validate:"omitempty,oneof=true false"`
	LowStock    bool   `query:"low_stock"`
}

// ProductResponse respuesta de producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url,omitempty"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   bool            `json:"is_available"`
	IsLowStock    bool            `json:"is_low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CategoryResponse categoría del catálogo.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
