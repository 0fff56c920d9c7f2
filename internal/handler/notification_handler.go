package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"restaurante-notificacoes/internal/domain"
	"restaurante-notificacoes/internal/middleware"
	"restaurante-notificacoes/internal/service/notification"
)

type NotificationResponse struct {
	domain.Notification
	ExpiresInSeconds int64 `json:"expires_in_seconds,omitempty"`
}

func toNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		Notification:     n,
		ExpiresInSeconds: int64(n.TTL.Seconds()),
	}
}

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > notification.MaxListLimit {
			return middleware.BadRequest("limit must be between 1 and 100")
		}
		limit = parsed
	}

	notifications, err := h.notifService.ListUnread(c.Context(), limit)
	if err != nil {
		return err
	}

	result := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		result[i] = toNotificationResponse(n)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	if err := h.notifService.MarkAsRead(c.Context(), notifID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Notificação marcada como lida",
	})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	if err := h.notifService.Delete(c.Context(), notifID); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Notificação removida com sucesso",
	})
}
