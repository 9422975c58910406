package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer cliente final que hace pedidos desde la app de compras.
type Customer struct {
	ID          string
	FullName    string
	PhoneNumber string
	Email       string
	CreatedAt   time.Time
}

// CustomerSummary cliente con sus agregados de pedidos en una tienda.
type CustomerSummary struct {
	Customer
	TotalOrders   int
	TotalSpent    decimal.Decimal
	LastOrderDate *time.Time
}
