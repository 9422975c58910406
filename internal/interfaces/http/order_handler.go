package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
)

// OrderHandler pedidos de la tienda (protegido).
type OrderHandler struct {
	uc *usecase.OrderUseCase
	v  *Validator
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase, v *Validator) *OrderHandler {
	return &OrderHandler{uc: uc, v: v}
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "Estado"
// @Param        search     query  string  false  "Número de pedido (parcial)"
// @Param        date_from  query  string  false  "YYYY-MM-DD"
// @Param        date_to    query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if ok, err := bindQuery(c, h.v, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetStoreID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Orders)
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido con cliente y líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Orders)
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "status, notes"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetStoreID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de estados del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {array}   dto.OrderStatusHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/history [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
