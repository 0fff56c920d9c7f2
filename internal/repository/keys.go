package repository

import (
	"fmt"

	"github.com/google/uuid"

	"restaurante-notificacoes/internal/domain"
)

const UnreadIndexKey = "notifications:unread"

func NotificationKey(id uuid.UUID) string {
	return "notification:" + id.String()
}

func RevokedTokenKey(jti string) string {
	return "token:revoked:" + jti
}

func AggregationKey(notifType domain.NotificationType, entityID string) string {
	return fmt.Sprintf("notification:agg:%s:%s", notifType, entityID)
}

// storeError classifies any backing store failure as ErrStoreUnavailable
// while keeping the cause in the chain.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
