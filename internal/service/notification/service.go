package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"restaurante-notificacoes/internal/domain"
	"restaurante-notificacoes/internal/repository"
)

const (
	DefaultTTL               = 24 * time.Hour
	DefaultAggregationWindow = 10 * time.Second
	DefaultListLimit         = 50
	MaxListLimit             = 100

	cleanupTimeout = 2 * time.Second
)

type Service interface {
	Create(ctx context.Context, notifType domain.NotificationType, entityID string, payload domain.NotificationPayload) (*domain.Notification, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListUnread(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	Notify(ctx context.Context, notifType domain.NotificationType, entityID string, payload domain.NotificationPayload) (*domain.Notification, error)
	NotifyWaiterCall(ctx context.Context, tableID string) (*domain.Notification, error)
	NotifyItemsAdded(ctx context.Context, orderID, tableID string, items []domain.OrderItem) (*domain.Notification, error)
	NotifyOrderFinalized(ctx context.Context, orderID, tableID string, total float64) (*domain.Notification, error)

	Sweep(ctx context.Context) (int, error)
}

type Options struct {
	// TTL is the lifetime of a notification, restarted on every merge.
	TTL time.Duration
	// ListLimit is the number of unread notifications listed by default.
	ListLimit int
}

type service struct {
	notifRepo repository.NotificationRepository
	unread    repository.UnreadIndex
	registry  repository.AggregationRegistry

	ttl       time.Duration
	listLimit int
	now       func() time.Time
}

func NewService(
	notifRepo repository.NotificationRepository,
	unread repository.UnreadIndex,
	registry repository.AggregationRegistry,
	opts Options,
) Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.ListLimit <= 0 || opts.ListLimit > MaxListLimit {
		opts.ListLimit = DefaultListLimit
	}

	return &service{
		notifRepo: notifRepo,
		unread:    unread,
		registry:  registry,
		ttl:       opts.TTL,
		listLimit: opts.ListLimit,
		now:       time.Now,
	}
}

// Create stores a notification and indexes it as unread, without looking for
// an open aggregation.
func (s *service) Create(ctx context.Context, notifType domain.NotificationType, entityID string, payload domain.NotificationPayload) (*domain.Notification, error) {
	notif, err := domain.NewNotification(notifType, entityID, payload, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.notifRepo.Save(ctx, notif, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}

	if err := s.unread.Insert(ctx, notif.ID, notif.CreatedAt); err != nil {
		s.discard(ctx, notif.ID)
		return nil, fmt.Errorf("failed to index notification: %w", err)
	}

	return notif, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.notifRepo.GetByID(ctx, id)
}

// ListUnread returns up to limit unread notifications, newest first. Index
// entries whose record expired or was read are skipped and removed from the
// index; reading continues past them until limit live notifications are
// found or the index is exhausted.
func (s *service) ListUnread(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = s.listLimit
	}

	result := make([]domain.Notification, 0, limit)
	seen := make(map[uuid.UUID]struct{}, limit)
	offset := 0
	for len(result) < limit {
		ids, err := s.unread.ListDescending(ctx, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list unread notifications: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		notifs, err := s.notifRepo.GetMany(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load notifications: %w", err)
		}

		var stale []uuid.UUID
		for i, notif := range notifs {
			if notif == nil || notif.Read {
				stale = append(stale, ids[i])
				continue
			}
			if _, dup := seen[notif.ID]; dup || len(result) == limit {
				continue
			}
			seen[notif.ID] = struct{}{}
			result = append(result, *notif)
		}

		// Removed entries no longer take up ranks in the index.
		offset += len(ids)
		if len(stale) > 0 {
			if err := s.unread.Remove(ctx, stale...); err != nil {
				log.Printf("Failed to remove %d stale ids from unread index: %v", len(stale), err)
			} else {
				offset -= len(stale)
			}
		}
	}

	return result, nil
}

// MarkAsRead hides the notification from listings. The record itself stays
// readable until its TTL runs out.
func (s *service) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	err := s.notifRepo.MarkAsRead(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if rmErr := s.unread.Remove(ctx, id); rmErr != nil {
		if err != nil {
			return err
		}
		return rmErr
	}
	return err
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.notifRepo.Delete(ctx, id)
}

// Notify routes an event to the aggregator or to plain creation depending on
// its type.
func (s *service) Notify(ctx context.Context, notifType domain.NotificationType, entityID string, payload domain.NotificationPayload) (*domain.Notification, error) {
	if !notifType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidNotificationType, notifType)
	}
	if notifType.Aggregates() {
		return s.aggregate(ctx, notifType, entityID, payload)
	}
	return s.Create(ctx, notifType, entityID, payload)
}

func (s *service) NotifyWaiterCall(ctx context.Context, tableID string) (*domain.Notification, error) {
	payload := domain.NotificationPayload{
		TableID: tableID,
		Message: fmt.Sprintf("Mesa %s solicitou atendente", tableID),
	}
	return s.Notify(ctx, domain.NotifWaiterCall, tableID, payload)
}

func (s *service) NotifyItemsAdded(ctx context.Context, orderID, tableID string, items []domain.OrderItem) (*domain.Notification, error) {
	for _, item := range items {
		if item.Name == "" || item.Quantity <= 0 || item.Quantity > domain.MaxItemQuantity {
			return nil, fmt.Errorf("%w: items need a name and a quantity between 1 and %d", domain.ErrInvalidEvent, domain.MaxItemQuantity)
		}
	}

	payload := domain.NotificationPayload{
		TableID: tableID,
		OrderID: orderID,
		Message: fmt.Sprintf("Novos itens adicionados ao pedido da mesa %s", tableID),
		Items:   items,
	}
	return s.Notify(ctx, domain.NotifItemsAdded, orderID, payload)
}

func (s *service) NotifyOrderFinalized(ctx context.Context, orderID, tableID string, total float64) (*domain.Notification, error) {
	payload := domain.NotificationPayload{
		TableID: tableID,
		OrderID: orderID,
		Total:   &total,
		Message: fmt.Sprintf("Pedido da mesa %s finalizado no valor de R$ %.2f", tableID, total),
	}
	return s.Notify(ctx, domain.NotifOrderFinalized, orderID, payload)
}

// discard removes a notification that never became visible. It runs on a
// detached context so that a cancelled request still cleans up after itself.
func (s *service) discard(ctx context.Context, id uuid.UUID) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.notifRepo.Delete(cleanupCtx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Printf("Failed to discard notification %s: %v", id, err)
	}
}
