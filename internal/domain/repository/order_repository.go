package repository

import (
	"context"
	"time"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

// OrderFilter filtros del listado de pedidos.
type OrderFilter struct {
	Status   string
	Search   string // ILIKE sobre order_number
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// OrderRepository puerto de persistencia para pedidos. Los listados devuelven cada pedido
// con su Customer e Items (con Product) ya resueltos.
type OrderRepository interface {
	List(ctx context.Context, storeID string, filter OrderFilter) ([]*entity.Order, int, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListRecent(ctx context.Context, storeID string, limit int) ([]*entity.Order, error)
	ListByCustomer(ctx context.Context, storeID, customerID string) ([]*entity.Order, error)
	// UpdateStatus cambia el estado solo si sigue siendo from; si no, ErrConflict.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error
	AddStatusHistory(ctx context.Context, h *entity.OrderStatusHistory) error
	ListStatusHistory(ctx context.Context, orderID string) ([]*entity.OrderStatusHistory, error)
}
