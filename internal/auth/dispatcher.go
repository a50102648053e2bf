package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dispatch routes recorded by core.Recorder.RecordDispatch
const (
	RouteLocal       = "local"
	RouteLDAP        = "ldap"
	RouteAmbiguous   = "ambiguous"
	RouteLookupError = "lookup_error"
	RouteRejected    = "rejected"
)

// Dispatcher decides, per username, whether the local store or the
// directory owns a user's credentials and delegates verification to it.
// It keeps no state between calls and is safe for concurrent use.
type Dispatcher struct {
	store     core.IdentityStore
	local     core.LocalBackend
	directory core.BasicVerifier
	metrics   core.Recorder
	log       *zap.Logger
}

// NewDispatcher wires the dispatcher. A nil directory behaves as
// DisabledDirectory.
func NewDispatcher(
	store core.IdentityStore,
	local core.LocalBackend,
	directory core.BasicVerifier,
	metrics core.Recorder,
	log *zap.Logger,
) *Dispatcher {
	if directory == nil {
		directory = DisabledDirectory{}
	}
	return &Dispatcher{
		store:     store,
		local:     local,
		directory: directory,
		metrics:   metrics,
		log:       log,
	}
}

// VerifyCredentials checks username/password against the backend that owns
// the username. Backend failures are returned unchanged.
func (d *Dispatcher) VerifyCredentials(
	ctx context.Context,
	c *gin.Context,
	username, password string,
) (*models.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		d.metrics.RecordDispatch(RouteRejected)
		return nil, ErrInvalidCredentials
	}

	users, err := d.store.FindActiveByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrInvalidProvider) {
			// the scan failed, so the number of records is unknown
			return nil, d.ambiguous(&AmbiguousIdentityError{Username: username, Err: err})
		}
		d.metrics.RecordDispatch(RouteLookupError)
		d.metrics.RecordDatabaseQueryError("find_active_by_username")
		d.log.Error("identity lookup failed", zap.String("username", username), zap.Error(err))
		return nil, &IdentityLookupError{Username: username, Err: err}
	}

	backend, route, ambiguous := d.resolve(username, users)
	if ambiguous != nil {
		return nil, d.ambiguous(ambiguous)
	}
	d.metrics.RecordDispatch(route)

	start := time.Now()
	user, err := backend.VerifyBasic(ctx, c, username, password)
	d.metrics.RecordAuthAttempt(backend.Name(), err == nil, time.Since(start))
	if err != nil {
		d.log.Info("credential verification failed",
			zap.String("username", username),
			zap.String("provider", backend.Name()),
			zap.Error(err))
		return nil, err
	}

	d.log.Debug("credentials verified",
		zap.String("username", username),
		zap.String("provider", backend.Name()))
	return user, nil
}

// NormalizeUsername is the single normalization applied to usernames before
// lookup, whichever route the credentials arrived on.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// resolve applies the ownership rules: a single local record goes to the
// local store; no record or a single ldap record goes to the directory;
// anything else is ambiguous.
func (d *Dispatcher) resolve(
	username string,
	users []models.User,
) (core.BasicVerifier, string, *AmbiguousIdentityError) {
	switch {
	case len(users) == 1 && users[0].Provider == models.ProviderLocal:
		return d.local, RouteLocal, nil
	case len(users) == 0,
		len(users) == 1 && users[0].Provider == models.ProviderLDAP:
		return d.directory, RouteLDAP, nil
	case len(users) == 1:
		return nil, "", &AmbiguousIdentityError{
			Username: username,
			Matches:  1,
			Err:      fmt.Errorf("%w: %q", models.ErrInvalidProvider, string(users[0].Provider)),
		}
	default:
		return nil, "", &AmbiguousIdentityError{Username: username, Matches: len(users)}
	}
}

func (d *Dispatcher) ambiguous(err *AmbiguousIdentityError) error {
	d.metrics.RecordDispatch(RouteAmbiguous)
	fields := []zap.Field{zap.String("username", err.Username), zap.Error(err)}
	if err.Matches > 0 {
		fields = append(fields, zap.Int("matches", err.Matches))
	}
	d.log.Error("refusing to authenticate ambiguous identity", fields...)
	return err
}

// VerifyToken always uses the local backend, whatever provider the
// user originally authenticated with.
func (d *Dispatcher) VerifyToken(ctx context.Context, c *gin.Context, token string) (*models.User, error) {
	return d.local.VerifyToken(ctx, c, token)
}

// CompleteLogin hands session setup to the local backend; next is passed through untouched.
func (d *Dispatcher) CompleteLogin(c *gin.Context, next core.Continuation) error {
	return d.local.CompleteLogin(c, next)
}

// DisabledDirectory stands in for the directory backend when LDAP is not configured.
type DisabledDirectory struct{}

func (DisabledDirectory) VerifyBasic(context.Context, *gin.Context, string, string) (*models.User, error) {
	return nil, ErrDirectoryDisabled
}

func (DisabledDirectory) Name() string {
	return RouteLDAP
}
