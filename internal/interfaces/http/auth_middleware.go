package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kirana-admin-api/internal/application/dto"
	"github.com/jhoicas/kirana-admin-api/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID  = "user_id"
	LocalStoreID = "store_id"
	LocalRole    = "role"
	LocalTokenID = "token_id"
	LocalToken   = "token"
)

// revocationChecker es el contrato mínimo para rechazar tokens cerrados con logout o de
// personal dado de baja. Lo implementa *auth.AuthUseCase.
type revocationChecker interface {
	IsRevoked(ctx context.Context, claims *jwt.Claims) (bool, error)
}

// AuthMiddleware valida el Bearer Token JWT y carga user_id, store_id, role y jti en c.Locals.
// Si no hay header Authorization acepta ?access_token= (EventSource no puede enviar headers).
// revoked puede ser nil.
func AuthMiddleware(jwtSecret string, revoked revocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, errResp := bearerToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		claims, err := jwt.ParseClaims(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.UserContext(), claims)
			if err != nil {
				return writeError(c, err)
			}
			if isRevoked {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "sesión cerrada"})
			}
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalStoreID, claims.StoreID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalTokenID, claims.ID)
		c.Locals(LocalToken, tokenString)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if q := strings.TrimSpace(c.Query("access_token")); q != "" {
			return q, nil
		}
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"}
	}
	return tokenString, nil
}

// RequireRole deja pasar solo a los roles indicados. Debe usarse después de AuthMiddleware.
//   - 401 MISSING_ROLE si el token no trae rol o tienda.
//   - 403 FORBIDDEN si el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" || GetStoreID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no contiene rol o tienda"})
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene permiso para esta acción"})
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetStoreID devuelve el StoreID del contexto (después del middleware de auth).
func GetStoreID(c *fiber.Ctx) string { return localString(c, LocalStoreID) }

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetToken devuelve el token crudo de la petición.
func GetToken(c *fiber.Ctx) string { return localString(c, LocalToken) }
