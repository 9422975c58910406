package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/kirana-admin-api/internal/application/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
)

// AnalyticsHandler maneja los endpoints de analítica de ventas.
type AnalyticsHandler struct {
	uc *appanalytics.AnalyticsUseCase
	v  *Validator
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.AnalyticsUseCase, v *Validator) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, v: v}
}

// Overview godoc
// @Summary      Resumen de ventas del rango
// @Description  Pedidos, ingresos, clientes únicos, ticket promedio, crecimiento frente a la ventana anterior
// @Description  del mismo número de días y categoría principal. Sin rango: últimos 30 días.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.AnalyticsOverviewResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Router       /api/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if ok, err := bindQuery(c, h.v, &q); !ok {
		return err
	}
	out, err := h.uc.Overview(c.UserContext(), GetStoreID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Analytics)
	return c.JSON(out)
}

// OrderTrends godoc
// @Summary      Pedidos por día
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin inclusive (YYYY-MM-DD)"
// @Success      200  {array}  dto.TrendPointDTO
// @Router       /api/analytics/order-trends [get]
func (h *AnalyticsHandler) OrderTrends(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if ok, err := bindQuery(c, h.v, &q); !ok {
		return err
	}
	out, err := h.uc.OrderTrends(c.UserContext(), GetStoreID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.OrderTrends)
	return c.JSON(out)
}

// RevenueTrends godoc
// @Summary      Ingresos por día
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin inclusive (YYYY-MM-DD)"
// @Success      200  {array}  dto.TrendPointDTO
// @Router       /api/analytics/revenue-trends [get]
func (h *AnalyticsHandler) RevenueTrends(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if ok, err := bindQuery(c, h.v, &q); !ok {
		return err
	}
	out, err := h.uc.RevenueTrends(c.UserContext(), GetStoreID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.RevenueTrends)
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        to     query  string  false  "Fin inclusive (YYYY-MM-DD)"
// @Param        limit  query  int     false  "Máximo 50"  default(5)
// @Success      200  {array}  dto.TopProductDTO
// @Router       /api/analytics/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if ok, err := bindQuery(c, h.v, &q); !ok {
		return err
	}
	out, err := h.uc.TopProducts(c.UserContext(), GetStoreID(c), q, c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.TopProducts)
	return c.JSON(out)
}

// CategoryBreakdown godoc
// @Summary      Ventas por categoría
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin inclusive (YYYY-MM-DD)"
// @Success      200  {array}  dto.CategoryBreakdownDTO
// @Router       /api/analytics/category-breakdown [get]
func (h *AnalyticsHandler) CategoryBreakdown(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if ok, err := bindQuery(c, h.v, &q); !ok {
		return err
	}
	out, err := h.uc.CategoryBreakdown(c.UserContext(), GetStoreID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.CategoryBreakdown)
	return c.JSON(out)
}
