package bootstrap

import (
	"github.com/go-authgate/hybridauth/internal/cache"
	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/metrics"
	"github.com/go-authgate/hybridauth/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userCachePrefix = "hybridauth:users:"

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config, log *zap.Logger) core.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Info("Prometheus metrics initialized")
	} else {
		log.Info("metrics disabled (using noop implementation)")
	}
	return recorder
}

// initializeUserCache returns the cache used for token-to-user lookups.
// The redis variant shares client and leaves closing it to the caller.
func initializeUserCache(
	cfg *config.Config,
	client redis.UniversalClient,
	log *zap.Logger,
) core.Cache[models.User] {
	if cfg.UserCacheType == config.UserCacheTypeRedis && client != nil {
		log.Info("user cache: redis", zap.Duration("ttl", cfg.UserCacheTTL))
		return cache.NewRedisCache[models.User](client, userCachePrefix)
	}
	log.Info("user cache: memory (single instance only)", zap.Duration("ttl", cfg.UserCacheTTL))
	return cache.NewMemoryCache[models.User]()
}
