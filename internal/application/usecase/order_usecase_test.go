package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

type orderFixture struct {
	uc        *OrderUseCase
	orders    *fakeOrderRepo
	publisher *recordingPublisher
	tx        *fakeTx
}

func newOrderFixture(t *testing.T, orders ...*entity.Order) orderFixture {
	t.Helper()
	qc, _ := newTestCache(t)
	repo := newFakeOrderRepo(orders...)
	admins := newFakeAdminRepo(
		&entity.StoreAdmin{ID: "adm-1", UserID: "user-1", StoreID: "store-1", Role: entity.RoleOwner, IsActive: true},
		&entity.StoreAdmin{ID: "adm-2", UserID: "user-2", StoreID: "store-2", Role: entity.RoleOwner, IsActive: true},
	)
	tx := &fakeTx{repos: ports.TxRepos{Orders: repo, Admins: admins}}
	pub := &recordingPublisher{}
	uc := NewOrderUseCase(repo, admins, tx, qc, pub, nil, time.UTC, zerolog.Nop())
	return orderFixture{uc: uc, orders: repo, publisher: pub, tx: tx}
}

func sampleOrder(id, storeID, status string) *entity.Order {
	return &entity.Order{
		ID:          id,
		OrderNumber: "ORD-" + id,
		CustomerID:  "cust-1",
		StoreID:     storeID,
		Status:      status,
		TotalAmount: decimal.RequireFromString("450.50"),
		CreatedAt:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestOrderUseCase_UpdateStatus_RecordsHistoryAndPublishes(t *testing.T) {
	f := newOrderFixture(t, sampleOrder("o1", "store-1", entity.OrderPending))

	resp, err := f.uc.UpdateStatus(context.Background(), "store-1", "user-1", "o1", dto.UpdateOrderStatusRequest{
		Status: entity.OrderConfirmed,
		Notes:  "confirmado por teléfono",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, resp.Status)
	assert.Equal(t, "Confirmed", resp.StatusLabel)
	assert.Equal(t, 1, f.tx.runs)

	require.Len(t, f.orders.history, 1)
	h := f.orders.history[0]
	assert.Equal(t, entity.OrderPending, h.FromStatus)
	assert.Equal(t, entity.OrderConfirmed, h.ToStatus)
	assert.Equal(t, "adm-1", h.ChangedBy)
	assert.Equal(t, "confirmado por teléfono", h.Notes)

	assert.Equal(t, []string{realtime.EventOrderUpdated, realtime.EventInvalidate}, f.publisher.types())
	data, ok := f.publisher.events[0].Data.(realtime.OrderUpdatedData)
	require.True(t, ok)
	assert.Equal(t, entity.OrderPending, data.OldStatus)
	assert.Equal(t, entity.OrderConfirmed, data.Status)
}

func TestOrderUseCase_UpdateStatus_Rules(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		target  string
		storeID string
		userID  string
		wantErr error
	}{
		{"pedido entregado", entity.OrderDelivered, entity.OrderCancelled, "store-1", "user-1", domain.ErrTerminalStatus},
		{"mismo estado", entity.OrderPreparing, entity.OrderPreparing, "store-1", "user-1", domain.ErrSameStatus},
		{"estado desconocido", entity.OrderPending, "lost", "store-1", "user-1", domain.ErrInvalidStatus},
		{"admin de otra tienda", entity.OrderPending, entity.OrderConfirmed, "store-1", "user-2", domain.ErrForbidden},
		{"pedido de otra tienda", entity.OrderPending, entity.OrderConfirmed, "store-2", "user-2", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t, sampleOrder("o1", "store-1", tt.status))
			_, err := f.uc.UpdateStatus(context.Background(), tt.storeID, tt.userID, "o1", dto.UpdateOrderStatusRequest{Status: tt.target})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.orders.history)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestOrderUseCase_UpdateStatus_ConcurrentChangeConflicts(t *testing.T) {
	f := newOrderFixture(t, sampleOrder("o1", "store-1", entity.OrderPending))
	// Otro admin cancela el pedido después de nuestra lectura y antes del UPDATE.
	f.orders.beforeUpdate = func(o *entity.Order) {
		o.Status = entity.OrderCancelled
	}

	_, err := f.uc.UpdateStatus(context.Background(), "store-1", "user-1", "o1", dto.UpdateOrderStatusRequest{Status: entity.OrderConfirmed})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.orders.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, got.Status, "un estado final no se sobrescribe")
	assert.Empty(t, f.orders.history)
	assert.Empty(t, f.publisher.events)
}

func TestOrderUseCase_ListIsCachedUntilStatusChange(t *testing.T) {
	f := newOrderFixture(t,
		sampleOrder("o1", "store-1", entity.OrderPending),
		sampleOrder("o2", "store-1", entity.OrderPreparing),
	)
	ctx := context.Background()

	first, err := f.uc.List(ctx, "store-1", dto.OrderListQuery{})
	require.NoError(t, err)
	assert.Len(t, first.Items, 2)
	assert.Equal(t, 20, first.Page.Limit)

	_, err = f.uc.List(ctx, "store-1", dto.OrderListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.orders.lists)

	_, err = f.uc.UpdateStatus(ctx, "store-1", "user-1", "o1", dto.UpdateOrderStatusRequest{Status: entity.OrderConfirmed})
	require.NoError(t, err)

	after, err := f.uc.List(ctx, "store-1", dto.OrderListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.orders.lists)
	statuses := map[string]string{}
	for _, o := range after.Items {
		statuses[o.ID] = o.Status
	}
	assert.Equal(t, entity.OrderConfirmed, statuses["o1"])
}

func TestOrderUseCase_ListDateFilters(t *testing.T) {
	f := newOrderFixture(t, sampleOrder("o1", "store-1", entity.OrderPending))
	ctx := context.Background()

	got, err := f.uc.List(ctx, "store-1", dto.OrderListQuery{DateFrom: "2024-03-10", DateTo: "2024-03-10"})
	require.NoError(t, err)
	assert.Len(t, got.Items, 1, "date_to incluye el día completo")

	_, err = f.uc.List(ctx, "store-1", dto.OrderListQuery{DateFrom: "2024-03-11", DateTo: "2024-03-10"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.List(ctx, "store-1", dto.OrderListQuery{DateFrom: "10/03/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderUseCase_GetOtherStore(t *testing.T) {
	f := newOrderFixture(t, sampleOrder("o1", "store-2", entity.OrderPending))
	_, err := f.uc.Get(context.Background(), "store-1", "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderUseCase_ListRecentClampsLimit(t *testing.T) {
	var orders []*entity.Order
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		orders = append(orders, sampleOrder(id, "store-1", entity.OrderPending))
	}
	f := newOrderFixture(t, orders...)

	got, err := f.uc.ListRecent(context.Background(), "store-1", 0)
	require.NoError(t, err)
	assert.Len(t, got, defaultRecentSize)
}
