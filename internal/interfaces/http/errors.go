package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/domain"
)

const msgPhoneRegistered = "This phone number is already registered. Please login instead."

// writeError traduce los errores de dominio a códigos HTTP. Los no reconocidos se registran y responden 500.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", "error interno"
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidBucket):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrPhoneAlreadyExists):
		status, code, msg = fiber.StatusConflict, "CONFLICT", msgPhoneRegistered
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrTerminalStatus), errors.Is(err, domain.ErrSameStatus):
		status, code, msg = fiber.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidOTP):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", err.Error()
	case errors.Is(err, domain.ErrFileTooLarge):
		status, code, msg = fiber.StatusRequestEntityTooLarge, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		status, code, msg = fiber.StatusUnsupportedMediaType, "VALIDATION", err.Error()
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validationFailed(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Fields:  fields,
	})
}

// bindBody parsea el JSON del cuerpo y lo valida. Si falla, ya escribió la respuesta y devuelve false.
func bindBody(c *fiber.Ctx, v *Validator, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	if fields := v.Struct(out); fields != nil {
		return false, validationFailed(c, fields)
	}
	return true, nil
}

// bindQuery igual que bindBody para parámetros de consulta.
func bindQuery(c *fiber.Ctx, v *Validator, out interface{}) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	if fields := v.Struct(out); fields != nil {
		return false, validationFailed(c, fields)
	}
	return true, nil
}

// cacheFor marca la respuesta como cacheable por el navegador durante el TTL del recurso.
func cacheFor(c *fiber.Ctx, res querycache.Resource) {
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("private, max-age=%d", int(res.TTL.Seconds())))
}

func errorsIsAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
