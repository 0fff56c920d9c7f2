package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"restaurante-notificacoes/internal/domain"
)

// AggregationRegistry holds the short-lived pointers that keep a
// notification open for merging. At most one pointer exists per
// (type, entity) pair; TryClaim is the only way to install one.
type AggregationRegistry interface {
	Lookup(ctx context.Context, notifType domain.NotificationType, entityID string) (uuid.UUID, bool, error)
	TryClaim(ctx context.Context, notifType domain.NotificationType, entityID string, id uuid.UUID) (bool, error)
	Refresh(ctx context.Context, notifType domain.NotificationType, entityID string, id uuid.UUID) (bool, error)
	Release(ctx context.Context, notifType domain.NotificationType, entityID string, id uuid.UUID) error
}

var refreshPointerScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0
`)

var releasePointerScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

type aggregationRegistry struct {
	redis  *redis.Client
	window time.Duration
}

func NewAggregationRegistry(redis *redis.Client, window time.Duration) AggregationRegistry {
	return &aggregationRegistry{redis: redis, window: window}
}

func (r *aggregationRegistry) Lookup(ctx context.Context, notifType domain.NotificationType, entityID string) (uuid.UUID, bool, error) {
	raw, err := r.redis.Get(ctx, AggregationKey(notifType, entityID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, storeError(err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		// A pointer nobody can follow is as good as no pointer.
		_ = r.redis.Del(ctx, AggregationKey(notifType, entityID)).Err()
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

func (r *aggregationRegistry) TryClaim(ctx context.Context, notifType domain.NotificationType, entityID string, id uuid.UUID) (bool, error) {
	ok, err := r.redis.SetNX(ctx, AggregationKey(notifType, entityID), id.String(), r.window).Result()
	if err != nil {
		return false, storeError(err)
	}
	return ok, nil
}

// Refresh restarts the aggregation window, but only while the pointer still
// references id. It reports false when the window had already closed.
func (r *aggregationRegistry) Refresh(ctx context.Context, notifType domain.NotificationType, entityID string, id uuid.UUID) (bool, error) {
	n, err := refreshPointerScript.Run(ctx, r.redis,
		[]string{AggregationKey(notifType, entityID)},
		id.String(), r.window.Milliseconds(),
	).Int()
	if err != nil {
		return false, storeError(err)
	}
	return n == 1, nil
}

func (r *aggregationRegistry) Release(ctx context.Context, notifType domain.NotificationType, entityID string, id uuid.UUID) error {
	err := releasePointerScript.Run(ctx, r.redis,
		[]string{AggregationKey(notifType, entityID)},
		id.String(),
	).Err()
	return storeError(err)
}
