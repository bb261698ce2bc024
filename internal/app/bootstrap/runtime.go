// Package bootstrap wires config into running components, shared between the
// API and worker binaries.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/oakfield-labs/clinic-scheduler/internal/config"
	"github.com/oakfield-labs/clinic-scheduler/internal/events"
	"github.com/oakfield-labs/clinic-scheduler/internal/mailroom"
	"github.com/oakfield-labs/clinic-scheduler/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildDedupStore selects the dedup backend from config: Postgres when a pgx
// pool is available, Redis as the TTL-bound alternative, and a process-local
// map for the memory provider. Returns nil when the configured backend has no
// connection to run on, in which case dedup is simply skipped.
func BuildDedupStore(cfg *appconfig.Config, pool *pgxpool.Pool, redisClient *redis.Client, logger *logging.Logger) mailroom.DedupStore {
	if cfg == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.DedupProvider {
	case "postgres":
		if pool == nil {
			logger.Warn("postgres dedup configured but no database connection; dedup disabled")
			return nil
		}
		return events.NewProcessedStore(pool)
	case "redis":
		if redisClient == nil {
			logger.Warn("redis dedup configured but redis unavailable; dedup disabled")
			return nil
		}
		return events.NewRedisProcessedStore(redisClient, cfg.DedupTTL)
	case "memory":
		return events.NewMemoryProcessedStore()
	default:
		logger.Warn("unknown dedup provider; dedup disabled", "provider", cfg.DedupProvider)
		return nil
	}
}
