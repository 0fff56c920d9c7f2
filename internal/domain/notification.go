package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifWaiterCall     NotificationType = "waiter_call"
	NotifItemsAdded     NotificationType = "items_added"
	NotifOrderFinalized NotificationType = "order_finalized"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotifWaiterCall, NotifItemsAdded, NotifOrderFinalized:
		return true
	}
	return false
}

// Aggregates reports whether events of this type merge into a recent
// notification for the same entity instead of creating a new one.
func (t NotificationType) Aggregates() bool {
	return t == NotifItemsAdded
}

func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(strings.TrimSpace(s))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidNotificationType, s)
	}
	return t, nil
}

// MaxItemQuantity bounds OrderItem.Quantity so that it survives the
// store's number encoding exactly.
const MaxItemQuantity = 10000

type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type NotificationPayload struct {
	TableID string      `json:"mesa_id,omitempty"`
	OrderID string      `json:"pedido_id,omitempty"`
	Total   *float64    `json:"total,omitempty"`
	Message string      `json:"message,omitempty"`
	Items   []OrderItem `json:"items,omitempty"`
}

type Notification struct {
	ID        uuid.UUID           `json:"id"`
	Type      NotificationType    `json:"type"`
	EntityID  string              `json:"entity_id"`
	Payload   NotificationPayload `json:"payload"`
	Count     int                 `json:"count"`
	Read      bool                `json:"read"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`

	// TTL is the remaining lifetime reported by the store. Zero when unknown.
	TTL time.Duration `json:"-"`
}

func NewNotification(notifType NotificationType, entityID string, payload NotificationPayload, now time.Time) (*Notification, error) {
	if !notifType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotificationType, notifType)
	}
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("%w: entity id is required", ErrInvalidEvent)
	}

	ts := now.UTC().Truncate(time.Millisecond)
	return &Notification{
		ID:        uuid.New(),
		Type:      notifType,
		EntityID:  entityID,
		Payload:   payload,
		Count:     1,
		Read:      false,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

func EncodeNotification(n *Notification) ([]byte, error) {
	return json.Marshal(n)
}

func DecodeNotification(data []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}
	if !n.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotificationType, n.Type)
	}
	return &n, nil
}
