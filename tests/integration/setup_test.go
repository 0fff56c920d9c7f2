//go:build integration
// +build integration

package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"restaurante-notificacoes/internal/config"
	"restaurante-notificacoes/internal/handler"
	"restaurante-notificacoes/internal/middleware"
	"restaurante-notificacoes/internal/repository"
	"restaurante-notificacoes/internal/service"
	"restaurante-notificacoes/internal/service/auth"
)

const (
	defaultRedisURL = "redis://localhost:6379/15"
	testSecret      = "integration-secret"
)

type TestEnv struct {
	App   *fiber.App
	Redis *redis.Client
	DB    *sqlx.DB
}

// SetupTestEnv builds the full application against a real Redis. Postgres is
// only used when DATABASE_URL is set.
func SetupTestEnv(t *testing.T, aggregationWindow time.Duration) *TestEnv {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = defaultRedisURL
	}

	cfg := &config.Config{
		Environment:       "test",
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          redisURL,
		RedisTimeout:      2 * time.Second,
		JWTSecret:         testSecret,
		NotificationTTL:   time.Hour,
		AggregationWindow: aggregationWindow,
		UnreadListLimit:   50,
	}

	var (
		client *redis.Client
		err    error
	)
	// Wait for Redis to be ready
	for i := 0; i < 10; i++ {
		client, err = config.NewRedisClient(cfg)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Redis not ready")

	flushNotifications(t, client)

	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		db, err = config.NewPostgresDB(cfg)
		require.NoError(t, err)

		_, err = db.Exec("CREATE TABLE IF NOT EXISTS mesas (id TEXT PRIMARY KEY)")
		require.NoError(t, err)
		_, err = db.Exec("INSERT INTO mesas (id) VALUES ('7') ON CONFLICT DO NOTHING")
		require.NoError(t, err)
	}

	repos := repository.NewRepositories(client, db, cfg.AggregationWindow)
	services := service.NewServices(repos, cfg)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	handler.RegisterRoutes(app, handler.NewHandlers(services, repos), services.Auth)

	return &TestEnv{App: app, Redis: client, DB: db}
}

func (e *TestEnv) Teardown(t *testing.T) {
	if e.Redis != nil {
		flushNotifications(t, e.Redis)
		e.Redis.Close()
	}
	if e.DB != nil {
		e.DB.Close()
	}
}

func (e *TestEnv) Token(t *testing.T, role string) string {
	claims := &auth.Claims{
		UserID: "integration-" + role,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func flushNotifications(t *testing.T, client *redis.Client) {
	ctx := context.Background()

	iter := client.Scan(ctx, 0, "notification:*", 100).Iterator()
	for iter.Next(ctx) {
		require.NoError(t, client.Del(ctx, iter.Val()).Err())
	}
	require.NoError(t, iter.Err())
	require.NoError(t, client.Del(ctx, repository.UnreadIndexKey).Err())
}
