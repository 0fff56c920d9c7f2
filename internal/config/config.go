package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL     string
	RedisTimeout time.Duration

	JWTSecret string

	CORSOrigins string

	NotificationTTL   time.Duration
	AggregationWindow time.Duration
	UnreadListLimit   int
	SweepInterval     time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisTimeout: getDurationEnv("REDIS_TIMEOUT", 5*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		NotificationTTL:   getDurationEnv("NOTIFICATION_TTL", 24*time.Hour),
		AggregationWindow: getDurationEnv("AGGREGATION_WINDOW", 10*time.Second),
		UnreadListLimit:   getIntEnv("UNREAD_LIST_LIMIT", 50),
		SweepInterval:     getDurationEnv("SWEEP_INTERVAL", time.Minute),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
