package bootstrap

import (
	"fmt"

	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// rateLimitMiddlewares holds rate limiting middlewares for different endpoints
type rateLimitMiddlewares struct {
	login gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration
func setupRateLimiting(
	cfg *config.Config,
	redisClient redis.UniversalClient,
	log *zap.Logger,
) (rateLimitMiddlewares, error) {
	if !cfg.EnableRateLimit {
		noOp := func(c *gin.Context) { c.Next() }
		return rateLimitMiddlewares{login: noOp}, nil
	}

	log.Info("rate limiting enabled", zap.String("store", cfg.RateLimitStore))

	login, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.LoginRateLimit,
		CleanupInterval:   cfg.RateLimitCleanupInterval,
		StoreType:         cfg.RateLimitStore,
		RedisClient:       redisClient,
		Endpoint:          "/login",
		Logger:            log,
	})
	if err != nil {
		return rateLimitMiddlewares{}, fmt.Errorf("failed to create rate limiter for /login: %w", err)
	}

	return rateLimitMiddlewares{login: login}, nil
}
