package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
)

// CustomerHandler clientes que compraron en la tienda (protegido).
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Customers)
	return c.JSON(out)
}

// Search GET /api/customers/search?q= (mínimo 2 caracteres)
func (h *CustomerHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), GetStoreID(c), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.CustomerSearch)
	return c.JSON(out)
}

// Details GET /api/customers/:id
func (h *CustomerHandler) Details(c *fiber.Ctx) error {
	out, err := h.uc.Details(c.UserContext(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Customer)
	return c.JSON(out)
}
