package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc         *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	v          *Validator
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, categories *usecase.CategoryUseCase, v *Validator) *ProductHandler {
	return &ProductHandler{uc: uc, categories: categories, v: v}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category      query  string  false  "Categoría"
// @Param        search        query  string  false  "Nombre (parcial)"
// @Param        is_available  query  string  false  "true | false"
// @Param        low_stock     query  bool    false  "Solo productos con stock bajo"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if ok, err := bindQuery(c, h.v, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetStoreID(c), q)
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Products)
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (parcial)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetStoreID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetStoreID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Categories godoc
// @Summary      Listar categorías
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	out, err := h.categories.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Categories)
	return c.JSON(out)
}
