package handler

import (
	"github.com/gofiber/fiber/v2"

	"restaurante-notificacoes/internal/middleware"
	"restaurante-notificacoes/internal/service/auth"
)

func RegisterRoutes(app *fiber.App, h *Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Called from the table, by customers.
	mesas := app.Group("/mesas")
	mesas.Post("/:id/chamar-atendente", h.Mesa.CallWaiter)

	authRequired := middleware.AuthRequired(authService)

	authGroup := app.Group("/auth", authRequired)
	authGroup.Post("/logout", h.Auth.Logout)

	notificacoes := app.Group("/notificacoes", authRequired)
	notificacoes.Get("/", h.Notification.List)
	notificacoes.Put("/:id/read", h.Notification.MarkAsRead)
	notificacoes.Delete("/:id", h.Notification.Delete)

	// Order events, reported by the order service.
	eventos := app.Group("/pedidos/:id/eventos", authRequired,
		middleware.RequireAnyRole(middleware.RoleService, middleware.RoleManager))
	eventos.Post("/itens-adicionados", h.Pedido.ItemsAdded)
	eventos.Post("/finalizado", h.Pedido.Finalized)
}
