package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-authgate/hybridauth/internal/auth"
	"github.com/go-authgate/hybridauth/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator is what RequireAuth needs from the dispatcher.
type Authenticator interface {
	VerifyCredentials(ctx context.Context, c *gin.Context, username, password string) (*models.User, error)
	VerifyToken(ctx context.Context, c *gin.Context, token string) (*models.User, error)
}

// RequireAuth resolves the caller from, in order, the session token, an
// Authorization Bearer token, or HTTP Basic credentials. The first source
// present decides; a request with none of them, or a rejected one, gets 401.
func RequireAuth(authn Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var (
			user *models.User
			err  error
		)
		switch {
		case sessionToken(c) != "":
			user, err = authn.VerifyToken(ctx, c, sessionToken(c))
		case bearerToken(c) != "":
			user, err = authn.VerifyToken(ctx, c, bearerToken(c))
		default:
			username, password, ok := c.Request.BasicAuth()
			if !ok {
				abortUnauthorized(c, "authentication required")
				return
			}
			user, err = authn.VerifyCredentials(ctx, c, username, password)
		}

		if err != nil {
			var lookup *auth.IdentityLookupError
			if errors.As(err, &lookup) {
				log.Error("authentication unavailable", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error":   "identity_lookup_failed",
					"message": "Authentication is temporarily unavailable",
				})
				return
			}
			log.Debug("authentication rejected", zap.Error(err))
			abortUnauthorized(c, "invalid credentials")
			return
		}

		models.SetUserInContext(c, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := models.GetUserFromContext(c)
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !user.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// RequirePermission checks the caller's memberships against the resource
// named by the route parameter param. It must run after RequireAuth.
func RequirePermission(scope models.MembershipScope, param string, perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := models.GetUserFromContext(c)
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !user.Can(scope, c.Param(param), perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Insufficient permission",
			})
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	tok, _ := sessions.Default(c).Get(auth.SessionToken).(string)
	return tok
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Basic realm="hybridauth"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
}
