package repository

import (
	"context"

	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

// CustomerRepository consultas de clientes. Los resúmenes solo incluyen clientes con pedidos en la tienda.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// ListSummaries ordenados por último pedido descendente.
	ListSummaries(ctx context.Context, storeID string) ([]*entity.CustomerSummary, error)
	// SearchSummaries ILIKE sobre full_name o phone_number.
	SearchSummaries(ctx context.Context, storeID, query string) ([]*entity.CustomerSummary, error)
}
