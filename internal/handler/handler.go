package handler

import (
	"restaurante-notificacoes/internal/repository"
	"restaurante-notificacoes/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Notification *NotificationHandler
	Mesa         *MesaHandler
	Pedido       *PedidoHandler
}

func NewHandlers(services *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Notification: NewNotificationHandler(services.Notification),
		Mesa:         NewMesaHandler(services.Notification, repos.Mesa),
		Pedido:       NewPedidoHandler(services.Notification),
	}
}
