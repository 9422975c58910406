package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

const minCustomerSearch = 2

// CustomerUseCase clientes que han comprado en la tienda, con sus agregados.
type CustomerUseCase struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	cache     *querycache.Cache
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customers repository.CustomerRepository, orders repository.OrderRepository, cache *querycache.Cache) *CustomerUseCase {
	return &CustomerUseCase{customers: customers, orders: orders, cache: cache}
}

// List clientes ordenados por último pedido.
func (uc *CustomerUseCase) List(ctx context.Context, storeID string) ([]dto.CustomerResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Customers, nil, func(ctx context.Context) ([]dto.CustomerResponse, error) {
		list, err := uc.customers.ListSummaries(ctx, storeID)
		if err != nil {
			return nil, err
		}
		return toCustomerResponses(list), nil
	})
}

// Search busca por nombre o teléfono. La consulta debe tener al menos 2 caracteres.
func (uc *CustomerUseCase) Search(ctx context.Context, storeID, query string) ([]dto.CustomerResponse, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minCustomerSearch {
		return nil, domain.ErrInvalidInput
	}
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.CustomerSearch, strings.ToLower(query), func(ctx context.Context) ([]dto.CustomerResponse, error) {
		list, err := uc.customers.SearchSummaries(ctx, storeID, query)
		if err != nil {
			return nil, err
		}
		return toCustomerResponses(list), nil
	})
}

// Details cliente con sus pedidos en la tienda y estadísticas. ErrNotFound si no existe
// o nunca compró en esta tienda.
func (uc *CustomerUseCase) Details(ctx context.Context, storeID, id string) (*dto.CustomerDetailsResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Customer, id, func(ctx context.Context) (*dto.CustomerDetailsResponse, error) {
		c, err := uc.customers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
		orders, err := uc.orders.ListByCustomer(ctx, storeID, id)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, domain.ErrNotFound
		}
		return &dto.CustomerDetailsResponse{
			ID:          c.ID,
			FullName:    c.FullName,
			PhoneNumber: c.PhoneNumber,
			Email:       c.Email,
			CreatedAt:   c.CreatedAt,
			Orders:      toOrderResponses(orders),
			OrderStats:  customerOrderStats(orders),
		}, nil
	})
}

// customerOrderStats totales sobre pedidos ordenados del más reciente al más antiguo.
func customerOrderStats(orders []*entity.Order) dto.CustomerOrderStats {
	stats := dto.CustomerOrderStats{
		TotalOrders:       len(orders),
		TotalSpent:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	var last time.Time
	for _, o := range orders {
		stats.TotalSpent = stats.TotalSpent.Add(o.TotalAmount)
		if o.CreatedAt.After(last) {
			last = o.CreatedAt
		}
	}
	if len(orders) > 0 {
		stats.AverageOrderValue = stats.TotalSpent.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
		stats.LastOrderDate = &last
	}
	stats.TotalSpent = stats.TotalSpent.Round(2)
	return stats
}

func toCustomerResponses(list []*entity.CustomerSummary) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CustomerResponse{
			ID:            c.ID,
			FullName:      c.FullName,
			PhoneNumber:   c.PhoneNumber,
			Email:         c.Email,
			CreatedAt:     c.CreatedAt,
			TotalOrders:   c.TotalOrders,
			TotalSpent:    c.TotalSpent.Round(2),
			LastOrderDate: c.LastOrderDate,
		})
	}
	return out
}
