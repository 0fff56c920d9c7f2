package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"restaurante-notificacoes/internal/domain"
)

// claimRetries bounds how many times a writer that lost the claim race goes
// back to merge into the winner's notification.
const claimRetries = 1

// aggregate merges the event into the open notification for
// (notifType, entityID) or opens a new one.
//
// The registry pointer is the only coordination between writers. A new
// notification is saved before it is claimed, so a pointer always refers to
// a record that exists unless it was deleted, read or expired since; in those
// cases the pointer is released and the event opens a fresh notification.
func (s *service) aggregate(ctx context.Context, notifType domain.NotificationType, entityID string, payload domain.NotificationPayload) (*domain.Notification, error) {
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("%w: entity id is required", domain.ErrInvalidEvent)
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidEvent)
	}

	for attempt := 0; attempt <= claimRetries; attempt++ {
		notif, err := s.mergeIntoOpen(ctx, notifType, entityID, payload)
		if err != nil {
			return nil, err
		}
		if notif != nil {
			return notif, nil
		}

		notif, err = s.claimNew(ctx, notifType, entityID, payload)
		if err == nil {
			return notif, nil
		}
		if !errors.Is(err, domain.ErrClaimConflict) {
			return nil, err
		}
	}

	// The window changed hands on every attempt. Keep the event as a
	// standalone notification instead of dropping it.
	log.Printf("Aggregation for %s:%s kept conflicting, recording event separately", notifType, entityID)
	return s.Create(ctx, notifType, entityID, payload)
}

// mergeIntoOpen appends the event to the notification referenced by the
// registry. It returns nil without error when there is nothing to merge into.
func (s *service) mergeIntoOpen(ctx context.Context, notifType domain.NotificationType, entityID string, payload domain.NotificationPayload) (*domain.Notification, error) {
	id, found, err := s.registry.Lookup(ctx, notifType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up aggregation: %w", err)
	}
	if !found {
		return nil, nil
	}

	notif, err := s.notifRepo.AppendItems(ctx, id, payload.Items, mergedMessageFormat(notifType, payload), s.now(), s.ttl)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrNotificationClosed) {
		if err := s.registry.Release(ctx, notifType, entityID, id); err != nil {
			return nil, fmt.Errorf("failed to release aggregation: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to merge notification: %w", err)
	}

	// The event is already recorded; a lost refresh only shortens the window.
	if _, err := s.registry.Refresh(ctx, notifType, entityID, id); err != nil {
		log.Printf("Failed to refresh aggregation window for %s:%s: %v", notifType, entityID, err)
	}

	return notif, nil
}

// claimNew opens a notification and tries to become the owner of the
// aggregation window. It returns ErrClaimConflict if another writer won.
func (s *service) claimNew(ctx context.Context, notifType domain.NotificationType, entityID string, payload domain.NotificationPayload) (*domain.Notification, error) {
	notif, err := domain.NewNotification(notifType, entityID, payload, s.now())
	if err != nil {
		return nil, err
	}

	// Saved but not indexed: invisible to listings until the claim is won.
	if err := s.notifRepo.Save(ctx, notif, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}

	claimed, err := s.registry.TryClaim(ctx, notifType, entityID, notif.ID)
	if err != nil {
		s.discard(ctx, notif.ID)
		return nil, fmt.Errorf("failed to claim aggregation: %w", err)
	}
	if !claimed {
		s.discard(ctx, notif.ID)
		return nil, domain.ErrClaimConflict
	}

	if err := s.unread.Insert(ctx, notif.ID, notif.CreatedAt); err != nil {
		s.abandonClaim(ctx, notifType, entityID, notif.ID)
		return nil, fmt.Errorf("failed to index notification: %w", err)
	}

	return notif, nil
}

// abandonClaim undoes claimNew after the claim was won but the notification
// could not be indexed.
func (s *service) abandonClaim(ctx context.Context, notifType domain.NotificationType, entityID string, id uuid.UUID) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.registry.Release(cleanupCtx, notifType, entityID, id); err != nil {
		log.Printf("Failed to release aggregation %s:%s: %v", notifType, entityID, err)
	}
	s.discard(ctx, id)
}

// mergedMessageFormat is the staff-facing message of a merged notification,
// with %d standing for the number of events merged so far.
func mergedMessageFormat(notifType domain.NotificationType, payload domain.NotificationPayload) string {
	if notifType != domain.NotifItemsAdded {
		return ""
	}
	tableID := strings.ReplaceAll(payload.TableID, "%", "%%")
	return "%d itens adicionados ao pedido da mesa " + tableID
}
