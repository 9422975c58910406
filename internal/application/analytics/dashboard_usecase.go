package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain/repository"
)

// DashboardUseCase genera las tarjetas del dashboard de la tienda.
//
// Fuente de datos: la vista dashboard_stats vía AnalyticsRepository.
// Se refresca cada 30s (TTL del recurso dashboard) y al llegar cambios de pedidos.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         *querycache.Cache
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, cache *querycache.Cache) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, cache: cache}
}

// GetStats totales de pedidos, ingresos (sin cancelados), clientes y productos con stock bajo.
// Una tienda sin datos devuelve ceros.
func (uc *DashboardUseCase) GetStats(ctx context.Context, storeID string) (*dto.DashboardStatsResponse, error) {
	return querycache.GetOrLoad(ctx, uc.cache, storeID, querycache.Dashboard, "stats", func(ctx context.Context) (*dto.DashboardStatsResponse, error) {
		s, err := uc.analyticsRepo.GetDashboardStats(ctx, storeID)
		if err != nil {
			return nil, fmt.Errorf("dashboard: estadísticas: %w", err)
		}
		return &dto.DashboardStatsResponse{
			TotalOrders:      s.TotalOrders,
			PendingOrders:    s.PendingOrders,
			CompletedOrders:  s.CompletedOrders,
			TotalRevenue:     s.TotalRevenue.Round(2),
			TotalCustomers:   s.TotalCustomers,
			LowStockProducts: s.LowStockProducts,
		}, nil
	})
}
