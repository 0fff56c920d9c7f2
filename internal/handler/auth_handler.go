package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"restaurante-notificacoes/internal/middleware"
	"restaurante-notificacoes/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Logout revokes the bearer token of the request.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return middleware.Unauthorized("User not found")
	}

	if err := h.authService.Revoke(c.Context(), claims); err != nil {
		if errors.Is(err, auth.ErrTokenNotRevocable) {
			return middleware.BadRequest("Token cannot be revoked")
		}
		return err
	}

	log.Printf("User %s logged out", middleware.GetCurrentUserID(c))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sessão encerrada",
	})
}
