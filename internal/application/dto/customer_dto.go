package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerResponse cliente con sus agregados en la tienda.
type CustomerResponse struct {
	ID            string          `json:"id"`
	FullName      string          `json:"full_name"`
	PhoneNumber   string          `json:"phone_number"`
	Email         string          `json:"email,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	TotalOrders   int             `json:"total_orders"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	LastOrderDate *time.Time      `json:"last_order_date"`
}

// CustomerOrderStats agregados del detalle de cliente.
type CustomerOrderStats struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	LastOrderDate     *time.Time      `json:"lastOrderDate"`
}

// CustomerDetailsResponse respuesta de GET /api/customers/:id.
type CustomerDetailsResponse struct {
	ID          string             `json:"id"`
	FullName    string             `json:"full_name"`
	PhoneNumber string             `json:"phone_number"`
	Email       string             `json:"email,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	Orders      []OrderResponse    `json:"orders"`
	OrderStats  CustomerOrderStats `json:"orderStats"`
}
