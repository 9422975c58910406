package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

func TestProductUseCase_CreateDefaultsAndInvalidates(t *testing.T) {
	qc, _ := newTestCache(t)
	repo := &fakeProductRepo{products: map[string]*entity.Product{}}
	pub := &recordingPublisher{}
	uc := NewProductUseCase(repo, qc, pub, 0)
	ctx := context.Background()

	_, err := uc.List(ctx, "store-1", dto.ProductListQuery{})
	require.NoError(t, err)

	created, err := uc.Create(ctx, "store-1", dto.CreateProductRequest{
		Name:          "  Toor Dal 1kg ",
		Price:         decimal.RequireFromString("145.499"),
		Category:      "Pulses",
		StockQuantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Toor Dal 1kg", created.Name)
	assert.True(t, created.IsAvailable)
	assert.True(t, created.IsLowStock)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("145.5")))
	assert.Equal(t, []string{realtime.EventInvalidate}, pub.types())

	list, err := uc.List(ctx, "store-1", dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, repo.lists)
}

func TestProductUseCase_UpdateAndDeleteScopedToStore(t *testing.T) {
	qc, _ := newTestCache(t)
	repo := &fakeProductRepo{products: map[string]*entity.Product{
		"p1": {ID: "p1", StoreID: "store-1", Name: "Atta", Category: "Flour", StockQuantity: 20, IsAvailable: true},
	}}
	uc := NewProductUseCase(repo, qc, &recordingPublisher{}, 10)
	ctx := context.Background()

	stock := 3
	unavailable := false
	updated, err := uc.Update(ctx, "store-1", "p1", dto.UpdateProductRequest{StockQuantity: &stock, IsAvailable: &unavailable})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.StockQuantity)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Atta", updated.Name)

	empty := " "
	_, err = uc.Update(ctx, "store-1", "p1", dto.UpdateProductRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, "store-2", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "store-2", "p1"), domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, "store-1", "p1"))
	assert.Empty(t, repo.products)
}

func TestCustomerUseCase_SearchRequiresTwoChars(t *testing.T) {
	qc, _ := newTestCache(t)
	uc := NewCustomerUseCase(nil, newFakeOrderRepo(), qc)

	_, err := uc.Search(context.Background(), "store-1", " a ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) ListSummaries(context.Context, string) ([]*entity.CustomerSummary, error) {
	return nil, nil
}

func (r *fakeCustomerRepo) SearchSummaries(context.Context, string, string) ([]*entity.CustomerSummary, error) {
	return nil, nil
}

func TestCustomerUseCase_DetailsStats(t *testing.T) {
	qc, _ := newTestCache(t)
	o1 := sampleOrder("o1", "store-1", entity.OrderDelivered)
	o2 := sampleOrder("o2", "store-1", entity.OrderPending)
	o2.TotalAmount = decimal.RequireFromString("100")
	o2.CreatedAt = o1.CreatedAt.Add(48 * time.Hour)
	other := sampleOrder("o3", "store-2", entity.OrderPending)
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cust-1": {ID: "cust-1", FullName: "Asha Verma", PhoneNumber: "+919876543210"},
	}}
	uc := NewCustomerUseCase(customers, newFakeOrderRepo(o1, o2, other), qc)

	got, err := uc.Details(context.Background(), "store-1", "cust-1")
	require.NoError(t, err)
	assert.Len(t, got.Orders, 2)
	assert.Equal(t, 2, got.OrderStats.TotalOrders)
	assert.True(t, got.OrderStats.TotalSpent.Equal(decimal.RequireFromString("550.50")))
	assert.True(t, got.OrderStats.AverageOrderValue.Equal(decimal.RequireFromString("275.25")))
	require.NotNil(t, got.OrderStats.LastOrderDate)
	assert.True(t, got.OrderStats.LastOrderDate.Equal(o2.CreatedAt))

	_, err = uc.Details(context.Background(), "store-3", "cust-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
