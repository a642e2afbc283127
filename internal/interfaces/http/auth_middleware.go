package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/eboutique-api/internal/application/dto"
	"github.com/jhoicas/eboutique-api/internal/domain/policy"
	"github.com/jhoicas/eboutique-api/pkg/jwt"
)

// Locals keys para UserID, rol y Principal en Fiber.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalPrincipal = "principal"
)

// AuthMiddleware valida el Bearer Token JWT y construye el Principal de la petición.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return authenticate(jwtSecret, true)
}

// OptionalAuth igual que AuthMiddleware pero sin header deja un principal anónimo.
// Un token presente e inválido sigue siendo 401.
func OptionalAuth(jwtSecret string) fiber.Handler {
	return authenticate(jwtSecret, false)
}

func authenticate(jwtSecret string, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			if !required {
				c.Locals(LocalPrincipal, policy.Principal(policy.Anonymous{}))
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no contiene rol"})
		}
		if !policy.ValidRole(role) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_ROLE", Message: "rol desconocido: " + role})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		c.Locals(LocalPrincipal, policy.FromClaims(userID, role))
		return c.Next()
	}
}

// RequireAction autoriza una acción que no depende de una boutique concreta.
// Debe usarse DESPUÉS de AuthMiddleware u OptionalAuth.
func RequireAction(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.Authorize(GetPrincipal(c), action, nil); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// shopScoper es el contrato mínimo para resolver responsable y gestionarios de una boutique.
// Lo implementa *usecase.ShopUseCase.
type shopScoper interface {
	Scope(ctx context.Context, shopID string) (*policy.ShopScope, error)
}

// RequireShopAction autoriza una acción sobre la boutique del parámetro de ruta param.
//   - 404 si la boutique no existe.
//   - 403 si el principal no es responsable/gestionario (o superusuario).
func RequireShopAction(action policy.Action, scoper shopScoper, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := scoper.Scope(c.UserContext(), c.Params(param))
		if err != nil {
			return writeError(c, err)
		}
		if err := policy.Authorize(GetPrincipal(c), action, scope); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto ("" si anónimo).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token ("" si anónimo).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetPrincipal devuelve el Principal de la petición (Anonymous si no pasó por auth).
func GetPrincipal(c *fiber.Ctx) policy.Principal {
	if p, ok := c.Locals(LocalPrincipal).(policy.Principal); ok && p != nil {
		return p
	}
	return policy.Anonymous{}
}
