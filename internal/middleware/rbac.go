package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const (
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleService = "service"
)

// RequireAnyRole admits tokens whose role is one of roles. It must run after
// AuthRequired.
func RequireAnyRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return Unauthorized("User not found")
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return Forbidden("Insufficient permissions for this operation")
	}
}
