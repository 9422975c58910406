package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
)

// SettingsHandler configuración de la tienda, personal y horarios.
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
	v  *Validator
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase, v *Validator) *SettingsHandler {
	return &SettingsHandler{uc: uc, v: v}
}

// GetStore godoc
// @Summary      Configuración de la tienda
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StoreResponse
// @Router       /api/settings/store [get]
func (h *SettingsHandler) GetStore(c *fiber.Ctx) error {
	out, err := h.uc.GetStore(c.UserContext(), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.StoreSettings)
	return c.JSON(out)
}

// UpdateStore godoc
// @Summary      Actualizar configuración (dueño o gerente)
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStoreRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.StoreResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/settings/store [put]
func (h *SettingsHandler) UpdateStore(c *fiber.Ctx) error {
	var in dto.UpdateStoreRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStore(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListStaff godoc
// @Summary      Personal de la tienda
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AdminResponse
// @Router       /api/settings/staff [get]
func (h *SettingsHandler) ListStaff(c *fiber.Ctx) error {
	out, err := h.uc.ListStaff(c.UserContext(), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.StaffMembers)
	return c.JSON(out)
}

// CreateStaff godoc
// @Summary      Agregar miembro del personal (solo dueño)
// @Description  Crea o vincula la cuenta por teléfono; el miembro entra con OTP.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStaffRequest  true  "phone_number, full_name, role"
// @Success      201  {object}  dto.AdminResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/settings/staff [post]
func (h *SettingsHandler) CreateStaff(c *fiber.Ctx) error {
	var in dto.CreateStaffRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.CreateStaff(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStaff godoc
// @Summary      Actualizar miembro del personal (solo dueño)
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del admin"
// @Param        body  body  dto.UpdateStaffRequest  true  "full_name, role, is_active"
// @Success      200  {object}  dto.AdminResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/staff/{id} [put]
func (h *SettingsHandler) UpdateStaff(c *fiber.Ctx) error {
	var in dto.UpdateStaffRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStaff(c.UserContext(), GetStoreID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivateStaff godoc
// @Summary      Desactivar miembro del personal (solo dueño)
// @Tags         settings
// @Security     Bearer
// @Param        id   path  string  true  "ID del admin"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/staff/{id} [delete]
func (h *SettingsHandler) DeactivateStaff(c *fiber.Ctx) error {
	if err := h.uc.DeactivateStaff(c.UserContext(), GetStoreID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetHours godoc
// @Summary      Horario semanal
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StoreHoursDTO
// @Router       /api/settings/hours [get]
func (h *SettingsHandler) GetHours(c *fiber.Ctx) error {
	out, err := h.uc.GetHours(c.UserContext(), GetStoreID(c))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.StoreHours)
	return c.JSON(out)
}

// UpdateHours godoc
// @Summary      Reemplazar horario semanal
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStoreHoursRequest  true  "Días 0-6"
// @Success      200  {array}  dto.StoreHoursDTO
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Router       /api/settings/hours [put]
func (h *SettingsHandler) UpdateHours(c *fiber.Ctx) error {
	var in dto.UpdateStoreHoursRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateHours(c.UserContext(), GetStoreID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
