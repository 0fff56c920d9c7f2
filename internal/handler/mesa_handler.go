package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"restaurante-notificacoes/internal/domain"
	"restaurante-notificacoes/internal/middleware"
	"restaurante-notificacoes/internal/repository"
	"restaurante-notificacoes/internal/service/notification"
)

type MesaHandler struct {
	notifService notification.Service
	mesaRepo     repository.MesaRepository
}

// NewMesaHandler builds the table handler. mesaRepo may be nil when the
// restaurant database is not configured; table ids are then not checked.
func NewMesaHandler(notifService notification.Service, mesaRepo repository.MesaRepository) *MesaHandler {
	return &MesaHandler{notifService: notifService, mesaRepo: mesaRepo}
}

func (h *MesaHandler) CallWaiter(c *fiber.Ctx) error {
	mesaID := strings.TrimSpace(c.Params("id"))
	if mesaID == "" {
		return middleware.BadRequest("Invalid table ID")
	}

	if h.mesaRepo != nil {
		exists, err := h.mesaRepo.Exists(c.Context(), mesaID)
		if err != nil {
			return fmt.Errorf("failed to look up table: %w", err)
		}
		if !exists {
			return domain.ErrTableNotFound
		}
	}

	notif, err := h.notifService.NotifyWaiterCall(c.Context(), mesaID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           notif.ID,
		"notification": toNotificationResponse(*notif),
	})
}
