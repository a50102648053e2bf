package bootstrap

import (
	"net/http"
	"time"

	"github.com/go-authgate/hybridauth/internal/auth"
	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/metrics"
	"github.com/go-authgate/hybridauth/internal/middleware"
	"github.com/go-authgate/hybridauth/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionCookieName = "hybridauth_session"

var ginModeMap = map[bool]string{
	false: gin.DebugMode,
	true:  gin.ReleaseMode,
}

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	h handlerSet,
	dispatcher *auth.Dispatcher,
	recorder core.Recorder,
	redisClient redis.UniversalClient,
	log *zap.Logger,
) (*gin.Engine, error) {
	gin.SetMode(ginModeMap[cfg.IsProduction])
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(requestLogger(log), gin.Recovery())

	setupSessionMiddleware(r, cfg)

	r.GET("/health", h.health)
	setupMetricsEndpoint(r, cfg, log)

	rateLimiters, err := setupRateLimiting(cfg, redisClient, log)
	if err != nil {
		return nil, err
	}

	r.POST("/login", rateLimiters.login, h.auth.Login)
	r.POST("/logout", h.auth.Logout)

	api := r.Group("/api", middleware.RequireAuth(dispatcher, log))
	{
		api.GET("/whoami", h.auth.WhoAmI)
		api.GET("/orgs/:org/access",
			middleware.RequirePermission(models.ScopeOrg, "org", models.PermissionRead),
			h.identities.OrgAccess)

		admin := api.Group("/admin", middleware.RequireAdmin())
		admin.GET("/identities/:username", h.identities.ListRecords)
		admin.DELETE("/users/:id", h.identities.DeleteRecord)
	}

	log.Info("server configured",
		zap.String("addr", cfg.ServerAddr),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("ldap", cfg.LDAPEnabled))

	return r, nil
}

// setupSessionMiddleware configures session handling middleware
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, sessionStore))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config, log *zap.Logger) {
	switch {
	case !cfg.MetricsEnabled:
		log.Info("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Info("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Info("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// requestLogger writes one structured line per request
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
