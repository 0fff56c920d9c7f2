package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"restaurante-notificacoes/internal/domain"
)

type NotificationRepository interface {
	Save(ctx context.Context, notif *domain.Notification, ttl time.Duration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]*domain.Notification, error)
	AppendItems(ctx context.Context, id uuid.UUID, items []domain.OrderItem, messageFormat string, updatedAt time.Time, ttl time.Duration) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsMany(ctx context.Context, ids []uuid.UUID) ([]bool, error)
}

// appendItemsScript merges items into a stored notification and restarts its
// lifetime in one step. messageFormat receives the merged event count
// through %d.
var appendItemsScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return {'missing'}
end
local rec = cjson.decode(raw)
if rec.read then
	return {'closed'}
end
if type(rec.payload) ~= 'table' then
	rec.payload = {}
end
if type(rec.payload.items) ~= 'table' then
	rec.payload.items = {}
end
for _, item in ipairs(cjson.decode(ARGV[1])) do
	table.insert(rec.payload.items, item)
end
rec.count = (tonumber(rec.count) or 1) + 1
rec.updated_at = ARGV[2]
if ARGV[4] ~= '' then
	rec.payload.message = string.format(ARGV[4], rec.count)
end
local encoded = cjson.encode(rec)
redis.call('SET', KEYS[1], encoded, 'PX', ARGV[3])
return {'ok', encoded}
`)

var markReadScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end
local ttl = redis.call('PTTL', KEYS[1])
local rec = cjson.decode(raw)
rec.read = true
if ttl > 0 then
	redis.call('SET', KEYS[1], cjson.encode(rec), 'PX', ttl)
else
	redis.call('SET', KEYS[1], cjson.encode(rec))
end
return 1
`)

type notificationRepository struct {
	redis *redis.Client
}

func NewNotificationRepository(redis *redis.Client) NotificationRepository {
	return &notificationRepository{redis: redis}
}

func (r *notificationRepository) Save(ctx context.Context, notif *domain.Notification, ttl time.Duration) error {
	data, err := domain.EncodeNotification(notif)
	if err != nil {
		return err
	}
	if err := r.redis.Set(ctx, NotificationKey(notif.ID), data, ttl).Err(); err != nil {
		return storeError(err)
	}
	notif.TTL = ttl
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	notifs, err := r.GetMany(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if notifs[0] == nil {
		return nil, domain.ErrNotFound
	}
	return notifs[0], nil
}

// GetMany loads the notifications in one round trip. The result is aligned
// with ids; missing or undecodable records are nil.
func (r *notificationRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]*domain.Notification, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	gets := make([]*redis.StringCmd, len(ids))
	ttls := make([]*redis.DurationCmd, len(ids))
	pipe := r.redis.Pipeline()
	for i, id := range ids {
		key := NotificationKey(id)
		gets[i] = pipe.Get(ctx, key)
		ttls[i] = pipe.PTTL(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, storeError(err)
	}

	notifs := make([]*domain.Notification, len(ids))
	for i, id := range ids {
		raw, err := gets[i].Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, storeError(err)
		}

		notif, err := domain.DecodeNotification(raw)
		if err != nil {
			log.Printf("Skipping unreadable notification %s: %v", id, err)
			continue
		}
		if ttl, err := ttls[i].Result(); err == nil && ttl > 0 {
			notif.TTL = ttl
		}
		notifs[i] = notif
	}

	return notifs, nil
}

func (r *notificationRepository) AppendItems(ctx context.Context, id uuid.UUID, items []domain.OrderItem, messageFormat string, updatedAt time.Time, ttl time.Duration) (*domain.Notification, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	res, err := appendItemsScript.Run(ctx, r.redis,
		[]string{NotificationKey(id)},
		string(itemsJSON),
		updatedAt.UTC().Truncate(time.Millisecond).Format(time.RFC3339Nano),
		ttl.Milliseconds(),
		messageFormat,
	).Slice()
	if err != nil {
		return nil, storeError(err)
	}
	if len(res) == 0 {
		return nil, storeError(errors.New("empty reply from append script"))
	}

	switch status, _ := res[0].(string); status {
	case "missing":
		return nil, domain.ErrNotFound
	case "closed":
		return nil, domain.ErrNotificationClosed
	case "ok":
	default:
		return nil, storeError(fmt.Errorf("unexpected append status %v", res[0]))
	}

	encoded, _ := res[1].(string)
	notif, err := domain.DecodeNotification([]byte(encoded))
	if err != nil {
		return nil, err
	}
	notif.TTL = ttl
	return notif, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	n, err := markReadScript.Run(ctx, r.redis, []string{NotificationKey(id)}).Int()
	if err != nil {
		return storeError(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the record and its unread index entry together. The index
// entry is removed even when the record already expired.
func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var del *redis.IntCmd
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, NotificationKey(id))
		pipe.ZRem(ctx, UnreadIndexKey, id.String())
		return nil
	})
	if err != nil {
		return storeError(err)
	}
	if del.Val() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) ExistsMany(ctx context.Context, ids []uuid.UUID) ([]bool, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.IntCmd, len(ids))
	pipe := r.redis.Pipeline()
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, NotificationKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, storeError(err)
	}

	exists := make([]bool, len(ids))
	for i, cmd := range cmds {
		exists[i] = cmd.Val() > 0
	}
	return exists, nil
}
