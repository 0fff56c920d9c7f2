package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	Notification NotificationRepository
	UnreadIndex  UnreadIndex
	Aggregation  AggregationRegistry
	Mesa         MesaRepository
	RevokedToken RevokedTokenRepository
}

// NewRepositories wires the Redis-backed notification storage. db may be nil,
// in which case table lookups are unavailable and Mesa is nil.
func NewRepositories(redis *redis.Client, db *sqlx.DB, aggregationWindow time.Duration) *Repositories {
	repos := &Repositories{
		Notification: NewNotificationRepository(redis),
		UnreadIndex:  NewUnreadIndex(redis),
		Aggregation:  NewAggregationRegistry(redis, aggregationWindow),
		RevokedToken: NewRevokedTokenRepository(redis),
	}
	if db != nil {
		repos.Mesa = NewMesaRepository(db)
	}
	return repos
}
