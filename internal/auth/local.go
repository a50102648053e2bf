package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"
	"github.com/go-authgate/hybridauth/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Session keys written by CompleteLogin
const (
	SessionUserID = "user_id"
	SessionToken  = "token"
)

// contextTokenKey holds the token issued by CompleteLogin for the current request
const contextTokenKey = "session_token"

// LocalStore is the slice of the user store the local backend reads.
type LocalStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

var _ core.LocalBackend = (*LocalStrategy)(nil)

// LocalStrategy verifies bcrypt passwords and session tokens against the local store.
type LocalStrategy struct {
	store    LocalStore
	tokens   *token.LocalTokenProvider
	users    core.Cache[models.User]
	cacheTTL time.Duration
	metrics  core.Recorder
	log      *zap.Logger
}

func NewLocalStrategy(
	s LocalStore,
	tokens *token.LocalTokenProvider,
	users core.Cache[models.User],
	cacheTTL time.Duration,
	metrics core.Recorder,
	log *zap.Logger,
) *LocalStrategy {
	return &LocalStrategy{
		store:    s,
		tokens:   tokens,
		users:    users,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		log:      log,
	}
}

// Name returns provider name for logging
func (s *LocalStrategy) Name() string {
	return string(models.ProviderLocal)
}

// VerifyBasic checks the password of a local user
func (s *LocalStrategy) VerifyBasic(
	ctx context.Context,
	c *gin.Context,
	username, password string,
) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("local user lookup: %w", err)
	}

	if !user.IsLocal() || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(password),
	); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// VerifyToken validates a session token and loads its user through the cache
func (s *LocalStrategy) VerifyToken(
	ctx context.Context,
	c *gin.Context,
	tokenString string,
) (*models.User, error) {
	start := time.Now()

	claims, err := s.tokens.ValidateToken(ctx, tokenString)
	if err != nil {
		result := "invalid"
		if errors.Is(err, token.ErrExpiredToken) {
			result = "expired"
		}
		s.metrics.RecordTokenValidation(result, time.Since(start))
		return nil, err
	}

	user, err := s.users.GetWithFetch(
		ctx,
		UserCacheKey(claims.UserID),
		s.cacheTTL,
		func(ctx context.Context, _ string) (models.User, error) {
			u, err := s.store.GetUserByID(ctx, claims.UserID)
			if err != nil {
				return models.User{}, err
			}
			return *u, nil
		},
	)
	if errors.Is(err, store.ErrRecordNotFound) {
		s.metrics.RecordTokenValidation("invalid", time.Since(start))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("token user lookup: %w", err)
	}

	s.metrics.RecordTokenValidation("valid", time.Since(start))
	return &user, nil
}

// CompleteLogin issues a session token for the user verified earlier in the
// request, stores it in the session and reports the outcome to next.
// next is called exactly once; the same error is returned.
func (s *LocalStrategy) CompleteLogin(c *gin.Context, next core.Continuation) error {
	finish := func(err error) error {
		if next != nil {
			next(err)
		}
		return err
	}

	user := models.GetUserFromContext(c)
	if user == nil {
		return finish(ErrNotAuthenticated)
	}

	issued, err := s.tokens.GenerateToken(c.Request.Context(), user.ID, user.Username)
	if err != nil {
		s.metrics.RecordLogin(string(user.Provider), false)
		return finish(err)
	}

	session := sessions.Default(c)
	session.Set(SessionUserID, user.ID)
	session.Set(SessionToken, issued.TokenString)
	if err := session.Save(); err != nil {
		s.metrics.RecordLogin(string(user.Provider), false)
		return finish(fmt.Errorf("failed to save session: %w", err))
	}

	c.Set(contextTokenKey, issued.TokenString)
	s.metrics.RecordLogin(string(user.Provider), true)
	s.log.Info("login completed",
		zap.String("username", user.Username),
		zap.String("provider", string(user.Provider)))

	return finish(nil)
}

// InvalidateUser drops the cached copy of a user
func (s *LocalStrategy) InvalidateUser(ctx context.Context, userID string) {
	if err := s.users.Delete(ctx, UserCacheKey(userID)); err != nil {
		s.log.Warn("failed to invalidate user cache", zap.String("user_id", userID), zap.Error(err))
	}
}

// IssuedToken returns the token CompleteLogin issued during this request.
func IssuedToken(c *gin.Context) string {
	return c.GetString(contextTokenKey)
}

// UserCacheKey is the cache key for a user id
func UserCacheKey(userID string) string {
	return "user:" + userID
}
