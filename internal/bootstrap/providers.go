package bootstrap

import (
	"github.com/go-authgate/hybridauth/internal/auth"
	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"
	"github.com/go-authgate/hybridauth/internal/token"

	"go.uber.org/zap"
)

// initializeLocalStrategy creates the local credential backend. Cached users
// are dropped whenever the store deletes or rewrites them.
func initializeLocalStrategy(
	cfg *config.Config,
	db *store.Store,
	tokens *token.LocalTokenProvider,
	users core.Cache[models.User],
	recorder core.Recorder,
	log *zap.Logger,
) *auth.LocalStrategy {
	local := auth.NewLocalStrategy(
		db,
		tokens,
		users,
		cfg.UserCacheTTL,
		recorder,
		log.Named("local"),
	)
	db.OnUserChanged(local.InvalidateUser)
	return local
}

// initializeDirectory creates the LDAP backend, or the disabled stand-in
// when LDAP is not configured
func initializeDirectory(
	cfg *config.Config,
	db *store.Store,
	users core.Cache[models.User],
	log *zap.Logger,
) core.BasicVerifier {
	if !cfg.LDAPEnabled {
		return auth.DisabledDirectory{}
	}
	return auth.NewLDAPStrategy(cfg, db, users, log.Named("ldap"))
}
