package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokenRepository remembers the ids of access tokens ended by logout
// until the tokens would have expired on their own.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type revokedTokenRepository struct {
	redis *redis.Client
}

func NewRevokedTokenRepository(redis *redis.Client) RevokedTokenRepository {
	return &revokedTokenRepository{redis: redis}
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return storeError(r.redis.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err())
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.redis.Exists(ctx, RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, storeError(err)
	}
	return n > 0, nil
}
