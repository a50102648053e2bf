package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/hybridauth/internal/auth"
	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"
	"github.com/go-authgate/hybridauth/internal/token"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config
	Logger *zap.Logger

	// Core infrastructure
	DB          *store.Store
	Metrics     core.Recorder
	RedisClient redis.UniversalClient // shared by the user cache and the rate limiter; nil when unused
	UserCache   core.Cache[models.User]

	// Authentication
	Tokens     *token.LocalTokenProvider
	Local      *auth.LocalStrategy
	Directory  core.BasicVerifier
	Dispatcher *auth.Dispatcher

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application, blocking until shutdown
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	app, err := New(ctx, cfg, log)
	if err != nil {
		return err
	}
	app.startWithGracefulShutdown()
	return nil
}

// New runs every initialization phase without starting the server.
// On error, whatever was opened is closed again.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Application, error) {
	app := &Application{
		Config: cfg,
		Logger: log,
	}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg, log); err != nil {
		return nil, err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		app.close()
		return nil, err
	}

	// Phase 3: Initialize authentication backends
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		app.close()
		return nil, err
	}

	return app, nil
}

// initializeInfrastructure sets up database, metrics, redis and the user cache
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.DB, err = initializeDatabase(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	app.Metrics = initializeMetrics(app.Config, app.Logger)

	app.RedisClient, err = initializeRedisClient(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	app.UserCache = initializeUserCache(app.Config, app.RedisClient, app.Logger)
	return nil
}

// initializeBusinessLayer wires the token provider, both backends and the dispatcher
func (app *Application) initializeBusinessLayer() {
	app.Tokens = token.NewLocalTokenProvider(app.Config)
	app.Local = initializeLocalStrategy(app.Config, app.DB, app.Tokens, app.UserCache, app.Metrics, app.Logger)
	app.Directory = initializeDirectory(app.Config, app.DB, app.UserCache, app.Logger)
	app.Dispatcher = auth.NewDispatcher(app.DB, app.Local, app.Directory, app.Metrics, app.Logger)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = initializeHandlers(app.Config, app.Dispatcher, app.DB, app.UserCache, app.Metrics, app.Logger)

	router, err := setupRouter(
		app.Config,
		app.HandlerSet,
		app.Dispatcher,
		app.Metrics,
		app.RedisClient,
		app.Logger,
	)
	if err != nil {
		return err
	}
	app.Router = router
	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager(graceful.WithLogger(app.Logger.Sugar()))

	addServerRunningJob(m, app.Server, app.Logger)
	addServerShutdownJob(m, app.Server, app.Logger)
	addCloserShutdownJob(m, "user cache", app.UserCache, app.Logger)
	addCloserShutdownJob(m, "redis", app.RedisClient, app.Logger)
	addCloserShutdownJob(m, "database", app.DB, app.Logger)

	<-m.Done()
}

// close releases infrastructure after a failed startup
func (app *Application) close() {
	if app.UserCache != nil {
		_ = app.UserCache.Close()
	}
	if app.RedisClient != nil {
		_ = app.RedisClient.Close()
	}
	if app.DB != nil {
		_ = app.DB.Close()
	}
}
