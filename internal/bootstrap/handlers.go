package bootstrap

import (
	"github.com/go-authgate/hybridauth/internal/auth"
	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/handlers"
	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	auth       *handlers.AuthHandler
	identities *handlers.IdentityHandler
	health     gin.HandlerFunc
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	dispatcher *auth.Dispatcher,
	db *store.Store,
	users core.Cache[models.User],
	recorder core.Recorder,
	log *zap.Logger,
) handlerSet {
	return handlerSet{
		auth:       handlers.NewAuthHandler(dispatcher, recorder, cfg.BaseURL, log.Named("http")),
		identities: handlers.NewIdentityHandler(db, log.Named("http")),
		health:     handlers.HealthHandler(db, users),
	}
}
