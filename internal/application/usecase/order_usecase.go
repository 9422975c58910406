package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/order"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

const (
	dateLayout        = "2006-01-02"
	defaultRecentSize = 5
	maxRecentSize     = 50
)

// OrderUseCase consulta de pedidos y cambio de estado con historial.
type OrderUseCase struct {
	orders    repository.OrderRepository
	admins    repository.StoreAdminRepository
	tx        ports.TxRunner
	cache     *querycache.Cache
	publisher ports.EventPublisher
	metrics   ports.Metrics
	loc       *time.Location
	log       zerolog.Logger
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. loc es la zona horaria de las tiendas.
func NewOrderUseCase(
	orders repository.OrderRepository,
	admins repository.StoreAdminRepository,
	tx ports.TxRunner,
	cache *querycache.Cache,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	loc *time.Location,
	log zerolog.Logger,
) *OrderUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &OrderUseCase{
		orders:    orders,
		admins:    admins,
		tx:        tx,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// List lista los pedidos de la tienda, más recientes primero.
func (uc *OrderUseCase) List(ctx context.Context, storeID string, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	q.DefaultPage()
	filter := repository.OrderFilter{
		Status: q.Status,
		Search: q.Search,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.DateFrom != "" {
		t, err := time.ParseInLocation(dateLayout, q.DateFrom, uc.loc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.DateFrom = &t
	}
	if q.DateTo != "" {
		t, err := time.ParseInLocation(dateLayout, q.DateTo, uc.loc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, uc.loc)
		filter.DateTo = &end
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, domain.ErrInvalidInput
	}

	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Orders, q, func(ctx context.Context) (*dto.OrderListResponse, error) {
		list, total, err := uc.orders.List(ctx, storeID, filter)
		if err != nil {
			return nil, err
		}
		return &dto.OrderListResponse{
			Items: toOrderResponses(list),
			Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
		}, nil
	})
}

// Get devuelve el pedido con cliente y líneas. ErrNotFound si no pertenece a la tienda.
func (uc *OrderUseCase) Get(ctx context.Context, storeID, id string) (*dto.OrderResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Orders, "id:"+id, func(ctx context.Context) (*dto.OrderResponse, error) {
		o, err := uc.load(ctx, uc.orders, storeID, id)
		if err != nil {
			return nil, err
		}
		return toOrderResponse(o), nil
	})
}

// ListRecent últimos pedidos para el widget del dashboard. limit por defecto 5, máximo 50.
func (uc *OrderUseCase) ListRecent(ctx context.Context, storeID string, limit int) ([]dto.OrderResponse, error) {
	if limit <= 0 {
		limit = defaultRecentSize
	}
	if limit > maxRecentSize {
		limit = maxRecentSize
	}
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Dashboard, fmt.Sprintf("recent:%d", limit), func(ctx context.Context) ([]dto.OrderResponse, error) {
		list, err := uc.orders.ListRecent(ctx, storeID, limit)
		if err != nil {
			return nil, err
		}
		return toOrderResponses(list), nil
	})
}

// UpdateStatus aplica las reglas de estado y registra el cambio en el historial, todo en una transacción.
// userID es el usuario autenticado; el historial guarda su registro de store_admin.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, storeID, userID, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	admin, err := uc.admins.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if admin == nil || admin.StoreID != storeID {
		return nil, domain.ErrForbidden
	}

	var from string
	now := uc.now()
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		o, err := uc.load(ctx, repos.Orders, storeID, id)
		if err != nil {
			return err
		}
		if err := order.ValidateTransition(o.Status, in.Status); err != nil {
			return err
		}
		from = o.Status
		if err := repos.Orders.UpdateStatus(ctx, id, from, in.Status, now); err != nil {
			return err
		}
		return repos.Orders.AddStatusHistory(ctx, &entity.OrderStatusHistory{
			ID:         uuid.New().String(),
			OrderID:    id,
			FromStatus: from,
			ToStatus:   in.Status,
			ChangedBy:  admin.ID,
			Notes:      in.Notes,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.OrderStatusUpdated(in.Status)

	resources := []querycache.Resource{querycache.Orders, querycache.Dashboard}
	if err := uc.cache.Invalidate(ctx, storeID, resources...); err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Str("order_id", id).Msg("no se pudo invalidar caché tras cambio de estado")
	}

	o, err := uc.load(ctx, uc.orders, storeID, id)
	if err != nil {
		return nil, err
	}
	uc.publisher.Publish(storeID, ports.StoreEvent{Type: realtime.EventOrderUpdated, Data: realtime.OrderUpdatedData{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		OldStatus:   from,
		Status:      o.Status,
	}})
	uc.publisher.Publish(storeID, invalidateEvent(resources...))
	return toOrderResponse(o), nil
}

// History cambios de estado del pedido, más recientes primero.
func (uc *OrderUseCase) History(ctx context.Context, storeID, id string) ([]dto.OrderStatusHistoryResponse, error) {
	if _, err := uc.load(ctx, uc.orders, storeID, id); err != nil {
		return nil, err
	}
	list, err := uc.orders.ListStatusHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderStatusHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.OrderStatusHistoryResponse{
			ID:            h.ID,
			OrderID:       h.OrderID,
			FromStatus:    h.FromStatus,
			ToStatus:      h.ToStatus,
			ChangedBy:     h.ChangedBy,
			ChangedByName: h.ChangedByName,
			Notes:         h.Notes,
			CreatedAt:     h.CreatedAt,
		})
	}
	return out, nil
}

func (uc *OrderUseCase) load(ctx context.Context, repo repository.OrderRepository, storeID, id string) (*entity.Order, error) {
	o, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func toOrderResponses(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		item := dto.OrderItemResponse{
			ID:        it.ID,
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
		if it.Product != nil {
			item.Product = &dto.ProductRef{ID: it.Product.ID, Name: it.Product.Name, ImageURL: it.Product.ImageURL}
		}
		items = append(items, item)
	}
	out := &dto.OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		StoreID:         o.StoreID,
		Status:          o.Status,
		StatusLabel:     order.Label(o.Status),
		TotalAmount:     o.TotalAmount,
		DeliveryAddress: o.DeliveryAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		OrderItems:      items,
	}
	if c := o.Customer; c != nil {
		out.Customer = &dto.CustomerRef{ID: c.ID, FullName: c.FullName, PhoneNumber: c.PhoneNumber, Email: c.Email}
	}
	return out
}
