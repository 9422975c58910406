package analytics_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kirana-admin-api/internal/application/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	domainanalytics "github.com/jhoicas/kirana-admin-api/internal/domain/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/cache"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// fakeAnalyticsRepo devuelve los hechos cuyo CreatedAt cae en [from, to].
type fakeAnalyticsRepo struct {
	orders []domainanalytics.OrderFact
	items  []domainanalytics.ItemFact
	stats  repository.DashboardStats
}

func (f *fakeAnalyticsRepo) ListOrderFacts(_ context.Context, _ string, from, to time.Time) ([]domainanalytics.OrderFact, error) {
	var out []domainanalytics.OrderFact
	for _, o := range f.orders {
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsRepo) ListItemFacts(_ context.Context, _ string, from, to time.Time) ([]domainanalytics.ItemFact, error) {
	var out []domainanalytics.ItemFact
	for _, it := range f.items {
		if !it.CreatedAt.Before(from) && !it.CreatedAt.After(to) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsRepo) GetDashboardStats(context.Context, string) (repository.DashboardStats, error) {
	return f.stats, nil
}

func (f *fakeAnalyticsRepo) ListLowStock(context.Context, string, int, int) ([]repository.LowStockProduct, error) {
	return nil, nil
}

type fakeStoreRepo struct{ store *entity.Store }

func (f *fakeStoreRepo) Create(context.Context, *entity.Store) error { return nil }
func (f *fakeStoreRepo) GetByID(context.Context, string) (*entity.Store, error) {
	return f.store, nil
}
func (f *fakeStoreRepo) Update(context.Context, *entity.Store) error         { return nil }
func (f *fakeStoreRepo) ListActive(context.Context) ([]*entity.Store, error) { return nil, nil }

type fakePDF struct {
	mu    sync.Mutex
	calls int
}

func (f *fakePDF) GenerateReportPDF(_ context.Context, storeName string, _ *dto.ReportResponse, _ time.Time) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return []byte("%PDF-" + storeName), nil
}

func newQueryCache(t *testing.T) *querycache.Cache {
	t.Helper()
	mem := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	return querycache.New(mem, nil, zerolog.Nop())
}

func at(day int, hour int) time.Time {
	return time.Date(2026, time.October, day, hour, 0, 0, 0, ist)
}

func order(id, customer string, amount int64, ts time.Time) domainanalytics.OrderFact {
	return domainanalytics.OrderFact{ID: id, CustomerID: customer, TotalAmount: decimal.NewFromInt(amount), CreatedAt: ts}
}

func TestOverview_GrowthAgainstPreviousWindow(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		orders: []domainanalytics.OrderFact{
			order("p1", "c1", 100, at(8, 10)),
			order("p2", "c2", 100, at(9, 10)),
			order("o1", "c1", 300, at(10, 10)),
			order("o2", "c3", 100, at(11, 20)),
		},
		items: []domainanalytics.ItemFact{
			{OrderID: "o1", ProductID: "rice", ProductName: "Rice", Category: "Grains", Quantity: 2, Price: decimal.NewFromInt(150), CreatedAt: at(10, 10)},
			{OrderID: "o2", ProductID: "milk", ProductName: "Milk", Category: "Dairy", Quantity: 4, Price: decimal.NewFromInt(25), CreatedAt: at(11, 20)},
		},
	}
	uc := analytics.NewAnalyticsUseCase(repo, newQueryCache(t), ist)

	out, err := uc.Overview(context.Background(), "s1", dto.DateRangeQuery{From: "2026-10-10", To: "2026-10-11"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalOrders)
	assert.True(t, out.TotalRevenue.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 2, out.TotalCustomers)
	assert.True(t, out.AverageOrderValue.Equal(decimal.NewFromInt(200)))
	assert.True(t, out.GrowthPercentage.Equal(decimal.NewFromInt(100)), "400 vs 200 = +100%%, got %s", out.GrowthPercentage)
	assert.Equal(t, "Dairy", out.TopCategory)
}

func TestOverview_InvalidRange(t *testing.T) {
	uc := analytics.NewAnalyticsUseCase(&fakeAnalyticsRepo{}, newQueryCache(t), ist)
	_, err := uc.Overview(context.Background(), "s1", dto.DateRangeQuery{From: "2026-10-12", To: "2026-10-10"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.OrderTrends(context.Background(), "s1", dto.DateRangeQuery{From: "12/10/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTrends_ZeroFilled(t *testing.T) {
	repo := &fakeAnalyticsRepo{orders: []domainanalytics.OrderFact{
		order("o1", "c1", 120, at(10, 9)),
		order("o2", "c1", 80, at(10, 18)),
		order("o3", "c2", 50, at(12, 9)),
	}}
	uc := analytics.NewAnalyticsUseCase(repo, newQueryCache(t), ist)
	q := dto.DateRangeQuery{From: "2026-10-10", To: "2026-10-12"}

	orders, err := uc.OrderTrends(context.Background(), "s1", q)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "2026-10-11", orders[1].Date)
	assert.Equal(t, "Oct 11", orders[1].Label)
	assert.True(t, orders[0].Value.Equal(decimal.NewFromInt(2)))
	assert.True(t, orders[1].Value.IsZero())

	revenue, err := uc.RevenueTrends(context.Background(), "s1", q)
	require.NoError(t, err)
	assert.True(t, revenue[0].Value.Equal(decimal.NewFromInt(200)))
	assert.True(t, revenue[2].Value.Equal(decimal.NewFromInt(50)))
}

func TestTopProductsLimit(t *testing.T) {
	var items []domainanalytics.ItemFact
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		items = append(items, domainanalytics.ItemFact{
			ProductID: name, ProductName: name, Category: "X", Quantity: 1,
			Price: decimal.NewFromInt(int64(10 * (i + 1))), CreatedAt: at(10, 10),
		})
	}
	uc := analytics.NewAnalyticsUseCase(&fakeAnalyticsRepo{items: items}, newQueryCache(t), ist)
	q := dto.DateRangeQuery{From: "2026-10-10", To: "2026-10-10"}

	top, err := uc.TopProducts(context.Background(), "s1", q, 0)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, "G", top[0].Name)

	breakdown, err := uc.CategoryBreakdown(context.Background(), "s1", q)
	require.NoError(t, err)
	require.Len(t, breakdown, 1)
	assert.True(t, breakdown[0].Percentage.Equal(decimal.NewFromInt(100)))
}

func TestDashboardStats_Zeros(t *testing.T) {
	uc := analytics.NewDashboardUseCase(&fakeAnalyticsRepo{}, newQueryCache(t))
	out, err := uc.GetStats(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, out.TotalOrders)
	assert.True(t, out.TotalRevenue.IsZero())
}

func TestReportCSV_Sections(t *testing.T) {
	r := &dto.ReportResponse{
		Period:    "daily",
		StartDate: "2026-10-19",
		EndDate:   "2026-10-19",
		Summary: dto.ReportSummaryDTO{
			TotalOrders:       2,
			TotalRevenue:      decimal.RequireFromString("350.5"),
			TotalCustomers:    1,
			AverageOrderValue: decimal.RequireFromString("175.25"),
		},
		TopProducts: []dto.TopProductDTO{
			{Name: "Basmati, 1kg", Category: "Grains", TotalSales: 3, TotalRevenue: decimal.NewFromInt(300), OrderCount: 2},
		},
	}
	out, err := analytics.ReportCSV(r)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")

	assert.Equal(t, "SUMMARY", lines[0])
	assert.Equal(t, "Metric,Value", lines[1])
	assert.Equal(t, "Total Revenue,350.50", lines[6])
	assert.Equal(t, "Average Order Value,175.25", lines[8])
	assert.Equal(t, "", lines[9])
	assert.Equal(t, "TOP PRODUCTS", lines[10])
	assert.Equal(t, `"Basmati, 1kg",Grains,3,300.00,2`, lines[12])
	assert.Equal(t, "", lines[13])
	assert.Equal(t, "CATEGORY BREAKDOWN", lines[14])
	assert.Equal(t, "Category,Quantity Sold,Revenue,Orders,Percentage", lines[15])
	assert.Len(t, lines, 16, "la sección vacía conserva su cabecera")
}

func TestReport_GenerateAndExport(t *testing.T) {
	now := time.Now().In(ist)
	repo := &fakeAnalyticsRepo{
		orders: []domainanalytics.OrderFact{order("o1", "c1", 250, now)},
		items: []domainanalytics.ItemFact{
			{OrderID: "o1", ProductID: "atta", ProductName: "Atta", Category: "Flour", Quantity: 1, Price: decimal.NewFromInt(250), CreatedAt: now},
		},
	}
	pdf := &fakePDF{}
	stores := &fakeStoreRepo{store: &entity.Store{ID: "s1", Name: "Ravi  Kirana Store"}}
	uc := analytics.NewReportUseCase(repo, stores, newQueryCache(t), pdf, ist)
	ctx := context.Background()

	report, err := uc.Generate(ctx, "s1", domainanalytics.PeriodDaily)
	require.NoError(t, err)
	assert.Equal(t, now.Format("2006-01-02"), report.StartDate)
	assert.Equal(t, 1, report.Summary.TotalOrders)
	require.Len(t, report.TopProducts, 1)
	require.Len(t, report.OrderTrends, 1)

	_, err = uc.Generate(ctx, "s1", "yearly")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	file, err := uc.Export(ctx, "s1", domainanalytics.PeriodDaily, "csv")
	require.NoError(t, err)
	assert.Equal(t, "Ravi_Kirana_Store_daily_report_"+now.Format("2006-01-02")+".csv", file.Filename)
	assert.Contains(t, string(file.Content), "TOP PRODUCTS")

	file, err = uc.Export(ctx, "s1", domainanalytics.PeriodDaily, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, 1, pdf.calls)

	_, err = uc.Export(ctx, "s1", domainanalytics.PeriodDaily, "xlsx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
