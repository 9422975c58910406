package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderListQuery filtros de GET /api/orders. Las fechas son YYYY-MM-DD en la zona horaria de la tienda.
type OrderListQuery struct {
	Status   string `query:"status" validate:"omitempty,order_status"`
	Search   string `query:"search" validate:"omitempty,max=50"`
	DateFrom string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// CustomerRef cliente embebido en un pedido.
type CustomerRef struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
}

// ProductRef producto embebido en una línea de pedido.
type ProductRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Product   *ProductRef     `json:"product,omitempty"`
}

// OrderResponse pedido con cliente y líneas.
type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      string              `json:"customer_id"`
	StoreID         string              `json:"store_id"`
	Status          string              `json:"status"`
	StatusLabel     string              `json:"status_label"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	DeliveryAddress string              `json:"delivery_address"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Customer        *CustomerRef        `json:"customer,omitempty"`
	OrderItems      []OrderItemResponse `json:"order_items"`
}

// OrderListResponse página de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// UpdateOrderStatusRequest body de PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
	Notes  string `json:"notes" validate:"omitempty,max=500"`
}

// OrderStatusHistoryResponse un cambio de estado.
type OrderStatusHistoryResponse struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	FromStatus    string    `json:"from_status,omitempty"`
	ToStatus      string    `json:"to_status"`
	ChangedBy     string    `json:"changed_by,omitempty"`
	ChangedByName string    `json:"changed_by_name,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
