package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurante-notificacoes/internal/domain"
)

func TestParseNotificationType(t *testing.T) {
	for _, s := range []string{"waiter_call", "items_added", "order_finalized"} {
		got, err := domain.ParseNotificationType(s)
		require.NoError(t, err)
		assert.Equal(t, domain.NotificationType(s), got)
	}

	_, err := domain.ParseNotificationType("order_items_added")
	assert.ErrorIs(t, err, domain.ErrInvalidNotificationType)

	_, err = domain.ParseNotificationType("")
	assert.ErrorIs(t, err, domain.ErrInvalidNotificationType)
}

func TestNotificationType_Aggregates(t *testing.T) {
	assert.True(t, domain.NotifItemsAdded.Aggregates())
	assert.False(t, domain.NotifWaiterCall.Aggregates())
	assert.False(t, domain.NotifOrderFinalized.Aggregates())
}

func TestNewNotification(t *testing.T) {
	now := time.Date(2026, 10, 19, 20, 15, 30, 123456789, time.FixedZone("BRT", -3*3600))

	t.Run("Success", func(t *testing.T) {
		n, err := domain.NewNotification(domain.NotifWaiterCall, "7", domain.NotificationPayload{TableID: "7"}, now)

		require.NoError(t, err)
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", n.ID.String())
		assert.Equal(t, domain.NotifWaiterCall, n.Type)
		assert.Equal(t, "7", n.EntityID)
		assert.Equal(t, 1, n.Count)
		assert.False(t, n.Read)
		assert.Equal(t, time.UTC, n.CreatedAt.Location())
		assert.True(t, n.CreatedAt.Equal(now.Truncate(time.Millisecond)))
		assert.True(t, n.UpdatedAt.Equal(n.CreatedAt))
	})

	t.Run("Unknown type", func(t *testing.T) {
		n, err := domain.NewNotification("garcom", "7", domain.NotificationPayload{}, now)

		assert.ErrorIs(t, err, domain.ErrInvalidNotificationType)
		assert.Nil(t, n)
	})

	t.Run("Missing entity", func(t *testing.T) {
		n, err := domain.NewNotification(domain.NotifWaiterCall, " ", domain.NotificationPayload{}, now)

		assert.ErrorIs(t, err, domain.ErrInvalidEvent)
		assert.Nil(t, n)
	})
}

func TestEncodeDecodeNotification(t *testing.T) {
	total := 123.45
	n, err := domain.NewNotification(domain.NotifItemsAdded, "42", domain.NotificationPayload{
		TableID: "7",
		OrderID: "42",
		Total:   &total,
		Message: "Novos itens adicionados ao pedido da mesa 7",
		Items:   []domain.OrderItem{{Name: "fries", Quantity: 2}, {Name: "soda", Quantity: 1}},
	}, time.Now())
	require.NoError(t, err)

	data, err := domain.EncodeNotification(n)
	require.NoError(t, err)

	decoded, err := domain.DecodeNotification(data)
	require.NoError(t, err)

	assert.Equal(t, n.ID, decoded.ID)
	assert.Equal(t, n.Type, decoded.Type)
	assert.Equal(t, n.EntityID, decoded.EntityID)
	assert.Equal(t, n.Payload, decoded.Payload)
	assert.Equal(t, n.Count, decoded.Count)
	assert.Equal(t, n.Read, decoded.Read)
	assert.True(t, n.CreatedAt.Equal(decoded.CreatedAt))
	assert.True(t, n.UpdatedAt.Equal(decoded.UpdatedAt))

	again, err := domain.EncodeNotification(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestDecodeNotification_RejectsUnknownType(t *testing.T) {
	_, err := domain.DecodeNotification([]byte(`{"id":"7f8c1a52-52b5-4a0c-9f43-3c1c4f2e9d10","type":"novo_item","entity_id":"1"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidNotificationType)

	_, err = domain.DecodeNotification([]byte(`not json`))
	assert.Error(t, err)
}
