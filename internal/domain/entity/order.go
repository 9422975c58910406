package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderPreparing      = "preparing"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
)

// Order pedido de un cliente a una tienda.
type Order struct {
	ID              string
	OrderNumber     string
	CustomerID      string
	StoreID         string
	Status          string
	TotalAmount     decimal.Decimal
	DeliveryAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer *Customer
	Items    []OrderItem
}

// OrderItem línea de pedido. Price es el precio unitario al momento de la compra.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal

	Product *Product // solo id, name e image_url
}

// OrderStatusHistory registro de cambio de estado.
type OrderStatusHistory struct {
	ID            string
	OrderID       string
	FromStatus    string // vacío para el estado inicial
	ToStatus      string
	ChangedBy     string // id de store_admin
	ChangedByName string
	Notes         string
	CreatedAt     time.Time
}
