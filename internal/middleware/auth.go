package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"restaurante-notificacoes/internal/domain"
	"restaurante-notificacoes/internal/service/auth"
)

const (
	ClaimsContextKey = "claims"
	UserIDContextKey = "user_id"
)

// AuthRequired admits requests carrying a valid staff bearer token.
func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return Unauthorized("Missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("Invalid authorization header format")
		}

		claims, err := authService.Authenticate(c.Context(), parts[1])
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		c.Locals(ClaimsContextKey, claims)
		c.Locals(UserIDContextKey, claims.UserID)

		return c.Next()
	}
}

func GetClaims(c *fiber.Ctx) *auth.Claims {
	claims, ok := c.Locals(ClaimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func GetCurrentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDContextKey).(string)
	return userID
}
