// Package analytics contiene los casos de uso de analítica de ventas, el resumen del
// dashboard y los reportes por período.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
	domainanalytics "github.com/jhoicas/kirana-admin-api/internal/domain/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

const (
	defaultTopProducts = 5
	maxTopProducts     = 50
)

// AnalyticsUseCase métricas de un rango de días: resumen con crecimiento, series diarias,
// top productos y desglose por categoría.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). La agregación es pura y vive en domain/analytics.
type AnalyticsUseCase struct {
	repo  repository.AnalyticsRepository
	cache *querycache.Cache
	loc   *time.Location
	now   func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso. loc es la zona horaria de las tiendas.
func NewAnalyticsUseCase(repo repository.AnalyticsRepository, cache *querycache.Cache, loc *time.Location) *AnalyticsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsUseCase{repo: repo, cache: cache, loc: loc, now: time.Now}
}

// Overview resumen del rango con crecimiento frente a la ventana anterior de igual duración.
func (uc *AnalyticsUseCase) Overview(ctx context.Context, storeID string, q dto.DateRangeQuery) (*dto.AnalyticsOverviewResponse, error) {
	r, err := uc.dayRange(q)
	if err != nil {
		return nil, err
	}
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Analytics, rangeKey(r), func(ctx context.Context) (*dto.AnalyticsOverviewResponse, error) {
		prev := r.Previous()
		var (
			current, previous []domainanalytics.OrderFact
			items             []domainanalytics.ItemFact
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			current, err = uc.repo.ListOrderFacts(gctx, storeID, r.From, r.To)
			return err
		})
		g.Go(func() (err error) {
			previous, err = uc.repo.ListOrderFacts(gctx, storeID, prev.From, prev.To)
			return err
		})
		g.Go(func() (err error) {
			items, err = uc.repo.ListItemFacts(gctx, storeID, r.From, r.To)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("analytics: overview: %w", err)
		}

		s := domainanalytics.Summarize(current)
		return &dto.AnalyticsOverviewResponse{
			TotalOrders:       s.TotalOrders,
			TotalRevenue:      s.TotalRevenue.Round(2),
			TotalCustomers:    s.TotalCustomers,
			AverageOrderValue: s.AverageOrderValue.Round(2),
			GrowthPercentage:  domainanalytics.Growth(s.TotalRevenue, domainanalytics.Revenue(previous)).Round(2),
			TopCategory:       domainanalytics.TopCategory(items),
		}, nil
	})
}

// OrderTrends pedidos por día, con ceros en los días sin ventas.
func (uc *AnalyticsUseCase) OrderTrends(ctx context.Context, storeID string, q dto.DateRangeQuery) ([]dto.TrendPointDTO, error) {
	r, err := uc.dayRange(q)
	if err != nil {
		return nil, err
	}
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.OrderTrends, rangeKey(r), func(ctx context.Context) ([]dto.TrendPointDTO, error) {
		orders, err := uc.repo.ListOrderFacts(ctx, storeID, r.From, r.To)
		if err != nil {
			return nil, err
		}
		return toTrendDTOs(domainanalytics.OrderTrend(orders, r)), nil
	})
}

// RevenueTrends ingresos por día.
func (uc *AnalyticsUseCase) RevenueTrends(ctx context.Context, storeID string, q dto.DateRangeQuery) ([]dto.TrendPointDTO, error) {
	r, err := uc.dayRange(q)
	if err != nil {
		return nil, err
	}
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.RevenueTrends, rangeKey(r), func(ctx context.Context) ([]dto.TrendPointDTO, error) {
		orders, err := uc.repo.ListOrderFacts(ctx, storeID, r.From, r.To)
		if err != nil {
			return nil, err
		}
		return toTrendDTOs(domainanalytics.RevenueTrend(orders, r)), nil
	})
}

// TopProducts productos con más ingresos. limit por defecto 5, máximo 50.
func (uc *AnalyticsUseCase) TopProducts(ctx context.Context, storeID string, q dto.DateRangeQuery, limit int) ([]dto.TopProductDTO, error) {
	r, err := uc.dayRange(q)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	params := fmt.Sprintf("%s:%d", rangeKey(r), limit)
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.TopProducts, params, func(ctx context.Context) ([]dto.TopProductDTO, error) {
		items, err := uc.repo.ListItemFacts(ctx, storeID, r.From, r.To)
		if err != nil {
			return nil, err
		}
		return toTopProductDTOs(domainanalytics.TopProducts(items, limit)), nil
	})
}

// CategoryBreakdown ventas por categoría con su porcentaje de ingresos.
func (uc *AnalyticsUseCase) CategoryBreakdown(ctx context.Context, storeID string, q dto.DateRangeQuery) ([]dto.CategoryBreakdownDTO, error) {
	r, err := uc.dayRange(q)
	if err != nil {
		return nil, err
	}
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.CategoryBreakdown, rangeKey(r), func(ctx context.Context) ([]dto.CategoryBreakdownDTO, error) {
		items, err := uc.repo.ListItemFacts(ctx, storeID, r.From, r.To)
		if err != nil {
			return nil, err
		}
		return toCategoryDTOs(domainanalytics.CategoryBreakdown(items)), nil
	})
}

func (uc *AnalyticsUseCase) dayRange(q dto.DateRangeQuery) (domainanalytics.DateRange, error) {
	r, err := domainanalytics.ParseDayRange(q.From, q.To, uc.now(), uc.loc)
	if err != nil {
		return r, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return r, nil
}

func rangeKey(r domainanalytics.DateRange) string {
	return r.StartDate() + "_" + r.EndDate()
}

// ── mappers ──────────────────────────────────────────────────────────────────

func toTrendDTOs(points []domainanalytics.TrendPoint) []dto.TrendPointDTO {
	out := make([]dto.TrendPointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, dto.TrendPointDTO{Date: p.Date, Label: p.Label, Value: p.Value.Round(2)})
	}
	return out
}

func toTopProductDTOs(list []domainanalytics.ProductSales) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dto.TopProductDTO{
			ID:           p.ID,
			Name:         p.Name,
			Category:     p.Category,
			TotalSales:   p.TotalSales,
			TotalRevenue: p.TotalRevenue.Round(2),
			OrderCount:   p.OrderCount,
		})
	}
	return out
}

func toCategoryDTOs(list []domainanalytics.CategorySales) []dto.CategoryBreakdownDTO {
	out := make([]dto.CategoryBreakdownDTO, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryBreakdownDTO{
			Category:     c.Category,
			TotalSales:   c.TotalSales,
			TotalRevenue: c.TotalRevenue.Round(2),
			OrderCount:   c.OrderCount,
			Percentage:   c.Percentage.Round(2),
		})
	}
	return out
}
