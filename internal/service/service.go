package service

import (
	"restaurante-notificacoes/internal/config"
	"restaurante-notificacoes/internal/repository"
	"restaurante-notificacoes/internal/service/auth"
	"restaurante-notificacoes/internal/service/notification"
)

type Services struct {
	Auth         auth.Service
	Notification notification.Service
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	notificationService := notification.NewService(
		repos.Notification,
		repos.UnreadIndex,
		repos.Aggregation,
		notification.Options{
			TTL:       cfg.NotificationTTL,
			ListLimit: cfg.UnreadListLimit,
		},
	)

	return &Services{
		Auth:         auth.NewService(cfg.JWTSecret, repos.RevokedToken),
		Notification: notificationService,
	}
}
