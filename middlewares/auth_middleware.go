package middlewares

import (
	"context"
	"strings"

	"marinehub.app/handlers/apierror"
	"marinehub.app/models"
	"marinehub.app/pkg/tokens"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalClaims = "claims"
)

// Authenticator is the part of the auth service the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*tokens.Claims, error)
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func setLocals(c *fiber.Ctx, claims *tokens.Claims) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalRole, models.UserRole(claims.Role))
	c.Locals(LocalClaims, claims)
	c.SetUserContext(models.ContextWithUserID(c.UserContext(), claims.UserID))
}

// AuthMiddleware requires a valid, unrevoked bearer token.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return apierror.Message(c, fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return apierror.Write(c, err)
		}
		setLocals(c, claims)
		return c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent and
// lets anonymous requests through otherwise.
func OptionalAuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.Authenticate(c.UserContext(), token); err == nil {
				setLocals(c, claims)
			}
		}
		return c.Next()
	}
}

// RequireRole lets through callers holding one of roles. It must run after
// AuthMiddleware.
func RequireRole(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(models.UserRole)
		if !ok {
			return apierror.Message(c, fiber.StatusUnauthorized, services.ErrUnauthenticated.Error())
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return apierror.Message(c, fiber.StatusForbidden, "insufficient role")
	}
}

// RequireAdmin is RequireRole(models.RoleAdmin).
func RequireAdmin() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}

// CurrentActor returns the caller set by the auth middlewares; anonymous when
// none ran or no token was sent.
func CurrentActor(c *fiber.Ctx) services.Actor {
	id, _ := c.Locals(LocalUserID).(uint)
	role, _ := c.Locals(LocalRole).(models.UserRole)
	return services.Actor{UserID: id, Role: role}
}

// CurrentClaims returns nil on routes without AuthMiddleware.
func CurrentClaims(c *fiber.Ctx) *tokens.Claims {
	claims, _ := c.Locals(LocalClaims).(*tokens.Claims)
	return claims
}
