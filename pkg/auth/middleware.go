package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

const authContextKey = "auth_context"

// AuthContext identifies the authenticated caller of a request
type AuthContext struct {
	UserID  kernel.UserID
	IsAdmin bool
}

// CanAccess reports whether the caller may act on a resource owned by ownerID
func (a AuthContext) CanAccess(ownerID kernel.UserID) bool {
	return a.IsAdmin || a.UserID == ownerID
}

// Middleware validates bearer tokens and stores the AuthContext on the request
func Middleware(tokenService TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization format")
		}

		claims, err := tokenService.ValidateAccessToken(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(authContextKey, AuthContext{
			UserID:  claims.UserID,
			IsAdmin: claims.IsAdmin,
		})

		return c.Next()
	}
}

// GetAuthContext extracts the caller identity from the request context
func GetAuthContext(c *fiber.Ctx) (AuthContext, error) {
	authCtx, ok := c.Locals(authContextKey).(AuthContext)
	if !ok {
		return AuthContext{}, fiber.NewError(fiber.StatusUnauthorized, "Missing authentication context")
	}
	return authCtx, nil
}
