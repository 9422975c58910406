package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/kirana-admin-api/internal/application/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
)

// DashboardHandler maneja los endpoints del dashboard.
type DashboardHandler struct {
	stats  *appanalytics.DashboardUseCase
	orders *usecase.OrderUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(stats *appanalytics.DashboardUseCase, orders *usecase.OrderUseCase) *DashboardHandler {
	return &DashboardHandler{stats: stats, orders: orders}
}

// GetStats devuelve los contadores de la vista dashboard_stats.
// GET /api/dashboard/stats
//
// Una tienda sin pedidos devuelve ceros. Se refresca cada 30s.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	out, err := h.stats.GetStats(c.UserContext(), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Dashboard)
	return c.JSON(out)
}

// RecentOrders últimos pedidos con su cliente.
// GET /api/dashboard/recent-orders?limit=5 (máximo 50)
func (h *DashboardHandler) RecentOrders(c *fiber.Ctx) error {
	out, err := h.orders.ListRecent(c.UserContext(), GetStoreID(c), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Dashboard)
	return c.JSON(out)
}
