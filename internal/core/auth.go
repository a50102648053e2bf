package core

import (
	"context"

	"github.com/go-authgate/hybridauth/internal/models"

	"github.com/gin-gonic/gin"
)

// IdentityStore is the read side of the user store the dispatcher needs.
type IdentityStore interface {
	// FindActiveByUsername returns every non-deleted user whose username
	// matches exactly, with memberships preloaded. An empty slice means no match.
	FindActiveByUsername(ctx context.Context, username string) ([]models.User, error)
}

// BasicVerifier checks a username/password pair. The gin context is the
// request/response carrier; implementations may read headers or write
// cookies through it.
type BasicVerifier interface {
	VerifyBasic(ctx context.Context, c *gin.Context, username, password string) (*models.User, error)
	Name() string
}

// TokenVerifier resolves a session or bearer token to a user.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, c *gin.Context, token string) (*models.User, error)
}

// Continuation receives the outcome of CompleteLogin. It is invoked exactly once.
type Continuation func(err error)

// LoginCompleter establishes the session for an already-verified user.
type LoginCompleter interface {
	CompleteLogin(c *gin.Context, next Continuation) error
}

// LocalBackend is everything the local credential store offers the dispatcher.
type LocalBackend interface {
	BasicVerifier
	TokenVerifier
	LoginCompleter
}
