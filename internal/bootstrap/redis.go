package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/hybridauth/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// initializeRedisClient opens the redis client shared by the user cache and
// the rate limiter. Returns nil when neither uses redis.
func initializeRedisClient(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
) (redis.UniversalClient, error) {
	if !cfg.NeedsRedis() {
		return nil, nil //nolint:nilnil // redis client not needed in this configuration
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Info("redis client initialized",
		zap.String("addr", cfg.RedisAddr),
		zap.Int("db", cfg.RedisDB))
	return client, nil
}
