package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/auth"
	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
)

// AuthHandler maneja login, OTP, registro y logout.
type AuthHandler struct {
	uc *auth.AuthUseCase
	v  *Validator
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, v *Validator) *AuthHandler {
	return &AuthHandler{uc: uc, v: v}
}

// Register godoc
// @Summary      Registrar tienda y dueño
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos del dueño y de la tienda"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión con teléfono o email y contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "phone|email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	if in.Phone == "" && in.Email == "" {
		return validationFailed(c, map[string]string{"phone": "phone or email is required"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errorsIsAny(err, domain.ErrUnauthorized, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RequestOTP godoc
// @Summary      Solicitar código OTP
// @Description  Responde 202 aunque el teléfono no esté registrado.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OTPRequest  true  "phone"
// @Success      202   {object}  dto.MessageResponse
// @Router       /api/auth/otp/request [post]
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var in dto.OTPRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	if err := h.uc.RequestOTP(c.UserContext(), in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{Message: "If the number is registered, an OTP has been sent"})
}

// VerifyOTP godoc
// @Summary      Verificar código OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OTPVerifyRequest  true  "phone, otp"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var in dto.OTPVerifyRequest
	if ok, err := bindBody(c, h.v, &in); !ok {
		return err
	}
	out, err := h.uc.VerifyOTP(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token actual)
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetToken(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
