package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
)

// ProfileHandler perfil del admin autenticado.
type ProfileHandler struct {
	uc *usecase.ProfileUseCase
	v  *Validator
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.ProfileUseCase, v *Validator) *ProfileHandler {
	return &ProfileHandler{uc: uc, v: v}
}

// Get GET /api/profile
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetStoreID(c), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	cacheFor(c, querycache.Profile)
	return c.JSON(out)
}

// Update PUT /api/profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetStoreID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
