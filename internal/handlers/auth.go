package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-authgate/hybridauth/internal/auth"
	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"
	"github.com/go-authgate/hybridauth/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginService is the dispatcher surface the login flow uses.
type LoginService interface {
	VerifyCredentials(ctx context.Context, c *gin.Context, username, password string) (*models.User, error)
	CompleteLogin(c *gin.Context, next core.Continuation) error
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Redirect string `form:"redirect" json:"redirect"`
}

type AuthHandler struct {
	logins  LoginService
	metrics core.Recorder
	baseURL string
	log     *zap.Logger
}

func NewAuthHandler(logins LoginService, m core.Recorder, baseURL string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		logins:  logins,
		metrics: m,
		baseURL: baseURL,
		log:     log,
	}
}

// Login verifies form, JSON or HTTP Basic credentials and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if username, password, ok := c.Request.BasicAuth(); ok {
		req.Username, req.Password = username, password
	} else if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "username and password are required",
		})
		return
	}

	if auth.NormalizeUsername(req.Username) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "username is required",
		})
		return
	}

	user, err := h.logins.VerifyCredentials(c.Request.Context(), c, req.Username, req.Password)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	models.SetUserInContext(c, user)
	_ = h.logins.CompleteLogin(c, func(err error) {
		if err != nil {
			h.log.Error("failed to complete login",
				zap.String("username", user.Username),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "session_error",
				"message": "Failed to create session",
			})
			return
		}

		if req.Redirect != "" && isRedirectSafe(req.Redirect, h.baseURL) {
			c.Redirect(http.StatusFound, req.Redirect)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":  user,
			"token": auth.IssuedToken(c),
		})
	})
}

// Logout clears the session
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.log.Error("failed to clear session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "session_error",
			"message": "Failed to clear session",
		})
		return
	}
	h.metrics.RecordLogout()
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// WhoAmI returns the authenticated user with its memberships
func (h *AuthHandler) WhoAmI(c *gin.Context) {
	user := models.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	memberships := user.Memberships
	if memberships == nil {
		memberships = []models.Membership{}
	}
	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"memberships": memberships,
	})
}

// writeAuthError maps credential failures onto HTTP responses. Unknown
// backend failures are treated as a rejection so no internals leak.
func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	var (
		ambiguous *auth.AmbiguousIdentityError
		lookup    *auth.IdentityLookupError
	)

	switch {
	case errors.As(err, &ambiguous):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "ambiguous_identity",
			"message": "This account cannot be signed in; contact an administrator",
		})
	case errors.As(err, &lookup):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "identity_lookup_failed",
			"message": "Authentication is temporarily unavailable",
		})
	case errors.Is(err, store.ErrUsernameConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "username_conflict",
			"message": "Username is already taken by a local account",
		})
	case errors.Is(err, auth.ErrLDAPConnection):
		h.log.Error("directory unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "directory_unavailable",
			"message": "Authentication is temporarily unavailable",
		})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrDirectoryDisabled),
		errors.Is(err, auth.ErrLDAPAmbiguousEntry),
		errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, token.ErrExpiredToken):
		h.writeInvalidCredentials(c)
	default:
		h.log.Error("credential verification error", zap.Error(err))
		h.writeInvalidCredentials(c)
	}
}

func (h *AuthHandler) writeInvalidCredentials(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="hybridauth"`)
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "invalid_credentials",
		"message": "Invalid username or password",
	})
}

// isRedirectSafe accepts relative paths and absolute http(s) URLs on the
// base URL's host.
func isRedirectSafe(redirectURL, baseURL string) bool {
	if redirectURL == "" {
		return true
	}
	if strings.ContainsAny(redirectURL, "\r\n\\") {
		return false
	}
	if strings.HasPrefix(redirectURL, "/") {
		return !strings.HasPrefix(redirectURL, "//")
	}

	parsed, err := url.Parse(redirectURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return parsed.Host == base.Host
}
