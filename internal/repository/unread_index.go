package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UnreadIndex is the time-ordered set of unread notification ids.
// Entries may outlive their records; readers clean them up lazily.
type UnreadIndex interface {
	Insert(ctx context.Context, id uuid.UUID, score time.Time) error
	Remove(ctx context.Context, ids ...uuid.UUID) error
	ListDescending(ctx context.Context, offset, limit int) ([]uuid.UUID, error)
	Members(ctx context.Context) ([]uuid.UUID, error)
}

type unreadIndex struct {
	redis *redis.Client
}

func NewUnreadIndex(redis *redis.Client) UnreadIndex {
	return &unreadIndex{redis: redis}
}

func (r *unreadIndex) Insert(ctx context.Context, id uuid.UUID, score time.Time) error {
	err := r.redis.ZAdd(ctx, UnreadIndexKey, redis.Z{
		Score:  float64(score.UnixMilli()),
		Member: id.String(),
	}).Err()
	return storeError(err)
}

func (r *unreadIndex) Remove(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id.String()
	}
	return storeError(r.redis.ZRem(ctx, UnreadIndexKey, members...).Err())
}

// ListDescending returns up to limit ids starting at rank offset, newest
// first. A limit <= 0 lists everything from offset on.
func (r *unreadIndex) ListDescending(ctx context.Context, offset, limit int) ([]uuid.UUID, error) {
	start := int64(offset)
	stop := int64(-1)
	if limit > 0 {
		stop = start + int64(limit) - 1
	}
	members, err := r.redis.ZRevRange(ctx, UnreadIndexKey, start, stop).Result()
	if err != nil {
		return nil, storeError(err)
	}
	return r.parseMembers(ctx, members), nil
}

func (r *unreadIndex) Members(ctx context.Context) ([]uuid.UUID, error) {
	members, err := r.redis.ZRange(ctx, UnreadIndexKey, 0, -1).Result()
	if err != nil {
		return nil, storeError(err)
	}
	return r.parseMembers(ctx, members), nil
}

// parseMembers drops members that are not notification ids, removing them
// from the index on the way.
func (r *unreadIndex) parseMembers(ctx context.Context, members []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(members))
	var garbage []interface{}
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			garbage = append(garbage, m)
			continue
		}
		ids = append(ids, id)
	}
	if len(garbage) > 0 {
		_ = r.redis.ZRem(ctx, UnreadIndexKey, garbage...).Err()
	}
	return ids
}
