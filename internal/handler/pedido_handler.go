package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"restaurante-notificacoes/internal/domain"
	"restaurante-notificacoes/internal/middleware"
	"restaurante-notificacoes/internal/service/notification"
)

type ItemsAddedInput struct {
	MesaID string             `json:"mesa_id"`
	Items  []domain.OrderItem `json:"items"`
}

type OrderFinalizedInput struct {
	MesaID string  `json:"mesa_id"`
	Total  float64 `json:"total"`
}

// PedidoHandler receives the order events reported by the order service.
type PedidoHandler struct {
	notifService notification.Service
}

func NewPedidoHandler(notifService notification.Service) *PedidoHandler {
	return &PedidoHandler{notifService: notifService}
}

func (h *PedidoHandler) ItemsAdded(c *fiber.Ctx) error {
	pedidoID := strings.TrimSpace(c.Params("id"))
	if pedidoID == "" {
		return middleware.BadRequest("Invalid order ID")
	}

	var input ItemsAddedInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.MesaID == "" || len(input.Items) == 0 {
		return middleware.BadRequest("mesa_id and items are required")
	}

	notif, err := h.notifService.NotifyItemsAdded(c.Context(), pedidoID, input.MesaID, input.Items)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toNotificationResponse(*notif))
}

func (h *PedidoHandler) Finalized(c *fiber.Ctx) error {
	pedidoID := strings.TrimSpace(c.Params("id"))
	if pedidoID == "" {
		return middleware.BadRequest("Invalid order ID")
	}

	var input OrderFinalizedInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.MesaID == "" || input.Total < 0 {
		return middleware.BadRequest("mesa_id is required and total cannot be negative")
	}

	notif, err := h.notifService.NotifyOrderFinalized(c.Context(), pedidoID, input.MesaID, input.Total)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toNotificationResponse(*notif))
}
