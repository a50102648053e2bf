package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-authgate/hybridauth/internal/auth"
	"github.com/go-authgate/hybridauth/internal/cache"
	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/metrics"
	"github.com/go-authgate/hybridauth/internal/middleware"
	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"
	"github.com/go-authgate/hybridauth/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestIsRedirectSafe(t *testing.T) {
	baseURL := "http://localhost:8080"

	tests := []struct {
		name        string
		redirectURL string
		want        bool
	}{
		{"empty redirect is safe", "", true},
		{"relative path", "/api/whoami", true},
		{"relative path with query", "/dashboard?tab=1", true},
		{"absolute URL with matching host", "http://localhost:8080/dashboard", true},
		{"protocol-relative URL", "//evil.com", false},
		{"absolute URL to different host", "https://evil.com/phishing", false},
		{"backslash variation", "/\\evil.com", false},
		{"header injection", "/ok\r\nSet-Cookie: x=y", false},
		{"javascript scheme", "javascript:alert(1)", false},
		{"bare path without slash", "dashboard", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRedirectSafe(tt.redirectURL, baseURL))
		})
	}
}

// stubLogins returns a fixed verification outcome
type stubLogins struct {
	user *models.User
	err  error
}

func (s stubLogins) VerifyCredentials(context.Context, *gin.Context, string, string) (*models.User, error) {
	return s.user, s.err
}

func (s stubLogins) CompleteLogin(c *gin.Context, next core.Continuation) error {
	next(nil)
	return nil
}

func TestLogin_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"directory disabled", auth.ErrDirectoryDisabled, http.StatusUnauthorized, "invalid_credentials"},
		{
			"ambiguous identity",
			&auth.AmbiguousIdentityError{Username: "carol", Matches: 2},
			http.StatusConflict, "ambiguous_identity",
		},
		{
			"lookup failure",
			&auth.IdentityLookupError{Username: "alice", Err: errors.New("db down")},
			http.StatusServiceUnavailable, "identity_lookup_failed",
		},
		{"username conflict", store.ErrUsernameConflict, http.StatusConflict, "username_conflict"},
		{
			"directory unreachable",
			fmt.Errorf("%w: dial tcp: refused", auth.ErrLDAPConnection),
			http.StatusServiceUnavailable, "directory_unavailable",
		},
		{"unknown backend error", errors.New("boom"), http.StatusUnauthorized, "invalid_credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			h := NewAuthHandler(stubLogins{err: tt.err}, metrics.NewNoopMetrics(), "http://localhost", zap.NewNop())
			r := gin.New()
			r.POST("/login", h.Login)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login",
				strings.NewReader(`{"username":"alice","password":"pw"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
			assert.NotContains(t, w.Body.String(), "db down")
		})
	}
}

func TestLogin_MissingUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(stubLogins{}, metrics.NewNoopMetrics(), "", zap.NewNop())
	r := gin.New()
	r.POST("/login", h.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("password=pw"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type testApp struct {
	router *gin.Engine
	store  *store.Store
}

// newTestApp wires the real dispatcher, local backend and sqlite store
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		BaseURL:              "http://localhost:8080",
		JWTSecret:            "handler-test-secret-long-enough-for-hs256",
		JWTExpiration:        time.Hour,
		DefaultAdminPassword: "admin-password",
		UserCacheTTL:         time.Minute,
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	s, err := store.New(context.Background(), "sqlite", dsn, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	m := metrics.NewNoopMetrics()
	local := auth.NewLocalStrategy(s, token.NewLocalTokenProvider(cfg),
		cache.NewMemoryCache[models.User](), cfg.UserCacheTTL, m, zap.NewNop())
	dispatcher := auth.NewDispatcher(s, local, nil, m, zap.NewNop())
	h := NewAuthHandler(dispatcher, m, cfg.BaseURL, zap.NewNop())

	r := gin.New()
	r.Use(sessions.Sessions("hybridauth_session", cookie.NewStore([]byte("session-secret"))))
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/api/whoami", middleware.RequireAuth(dispatcher, zap.NewNop()), h.WhoAmI)
	r.GET("/health", HealthHandler(s, nil))

	return &testApp{router: r, store: s}
}

func (a *testApp) createLocalUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Username: username, Provider: models.ProviderLocal, PasswordHash: string(hash)}
	require.NoError(t, a.store.CreateUser(context.Background(), u))
	require.NoError(t, a.store.AddMembership(context.Background(), &models.Membership{
		UserID:     u.ID,
		Scope:      models.ScopeOrg,
		ResourceID: "acme",
		Permission: models.PermissionRead,
	}))
	return u
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestLoginFlow_Local(t *testing.T) {
	app := newTestApp(t)
	alice := app.createLocalUser(t, "alice", "wonderland")

	form := url.Values{"username": {"alice"}, "password": {"wonderland"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := app.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, alice.ID, body.User.ID)
	require.NotEmpty(t, body.Token)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	t.Run("SessionCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := app.do(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"resource_id":"acme"`)
	})

	t.Run("BearerToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+body.Token)
		w := app.do(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
	})

	t.Run("BasicAuth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.SetBasicAuth("alice", "wonderland")
		assert.Equal(t, http.StatusOK, app.do(req).Code)
	})

	t.Run("PaddedUsernameSameOnEveryRoute", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.SetBasicAuth(" alice ", "wonderland")
		assert.Equal(t, http.StatusOK, app.do(req).Code)

		req = httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(`{"username":" alice ","password":"wonderland"}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusOK, app.do(req).Code)
	})

	t.Run("Logout", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := app.do(req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "logged_out")
	})
}

func TestLoginFlow_BasicAuthAndRedirect(t *testing.T) {
	app := newTestApp(t)
	app.createLocalUser(t, "alice", "wonderland")

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"redirect":"/api/whoami"}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("alice", "wonderland")
	w := app.do(req)

	// Basic credentials take precedence over the body, so redirect is ignored
	assert.Equal(t, http.StatusOK, w.Code)

	form := url.Values{"username": {"alice"}, "password": {"wonderland"}, "redirect": {"/api/whoami"}}
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = app.do(req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/whoami", w.Header().Get("Location"))
}

func TestLoginFlow_Failures(t *testing.T) {
	app := newTestApp(t)
	app.createLocalUser(t, "alice", "wonderland")
	app.createLocalUser(t, "carol", "pw")
	app.createLocalUser(t, "carol", "pw")

	cases := []struct {
		username, password string
		want               int
		code               string
	}{
		{"alice", "wrong", http.StatusUnauthorized, "invalid_credentials"},
		{"bob", "pw", http.StatusUnauthorized, "invalid_credentials"}, // directory disabled
		{"carol", "pw", http.StatusConflict, "ambiguous_identity"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/login",
			strings.NewReader(fmt.Sprintf(`{"username":%q,"password":%q}`, tc.username, tc.password)))
		req.Header.Set("Content-Type", "application/json")
		w := app.do(req)
		assert.Equal(t, tc.want, w.Code, tc.username)
		assert.Contains(t, w.Body.String(), tc.code, tc.username)
	}
}

func TestWhoAmI_Unauthenticated(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/api/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
