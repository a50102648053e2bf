package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabaseDriver: DatabaseDriverSQLite,
		DatabaseDSN:    ":memory:",
		RateLimitStore: RateLimitStoreMemory,
		UserCacheType:  UserCacheTypeMemory,
		UserCacheTTL:   5 * time.Minute,
		JWTSecret:      "test-secret",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid driver",
			mutate:      func(c *Config) { c.DatabaseDriver = "mysql" },
			expectError: true,
			errorMsg:    `invalid DATABASE_DRIVER value: "mysql"`,
		},
		{
			name:        "missing dsn",
			mutate:      func(c *Config) { c.DatabaseDSN = "" },
			expectError: true,
			errorMsg:    "DATABASE_DSN is required",
		},
		{
			name:        "invalid rate limit store - typo",
			mutate:      func(c *Config) { c.RateLimitStore = "reddis" },
			expectError: true,
			errorMsg:    `invalid RATE_LIMIT_STORE value: "reddis"`,
		},
		{
			name:        "invalid rate limit store - uppercase",
			mutate:      func(c *Config) { c.RateLimitStore = "MEMORY" },
			expectError: true,
			errorMsg:    `invalid RATE_LIMIT_STORE value: "MEMORY"`,
		},
		{
			name:        "invalid user cache type",
			mutate:      func(c *Config) { c.UserCacheType = "memcache" },
			expectError: true,
			errorMsg:    `invalid USER_CACHE_TYPE value: "memcache"`,
		},
		{
			name:        "zero user cache ttl",
			mutate:      func(c *Config) { c.UserCacheTTL = 0 },
			expectError: true,
			errorMsg:    "USER_CACHE_TTL must be positive",
		},
		{
			name: "redis cache without address",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedis
				c.RedisAddr = ""
			},
			expectError: true,
			errorMsg:    "REDIS_ADDR is required",
		},
		{
			name: "redis cache with address",
			mutate: func(c *Config) {
				c.UserCacheType = UserCacheTypeRedis
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name: "ldap enabled without url",
			mutate: func(c *Config) {
				c.LDAPEnabled = true
				c.LDAPBaseDN = "dc=example,dc=com"
				c.LDAPUsernameAttr = "uid"
			},
			expectError: true,
			errorMsg:    "LDAP_URL is required",
		},
		{
			name: "ldap enabled without base dn",
			mutate: func(c *Config) {
				c.LDAPEnabled = true
				c.LDAPURL = "ldap://localhost:389"
				c.LDAPUsernameAttr = "uid"
			},
			expectError: true,
			errorMsg:    "LDAP_BASE_DN is required",
		},
		{
			name: "ldap fully configured",
			mutate: func(c *Config) {
				c.LDAPEnabled = true
				c.LDAPURL = "ldap://localhost:389"
				c.LDAPBaseDN = "dc=example,dc=com"
				c.LDAPUsernameAttr = "uid"
			},
		},
		{
			name: "short jwt secret in production",
			mutate: func(c *Config) {
				c.IsProduction = true
				c.JWTSecret = "short"
			},
			expectError: true,
			errorMsg:    "JWT_SECRET must be at least",
		},
		{
			name: "long jwt secret in production",
			mutate: func(c *Config) {
				c.IsProduction = true
				c.JWTSecret = strings.Repeat("x", minJWTSecretLength)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=db user=auth")
	t.Setenv("LDAP_ENABLED", "1")
	t.Setenv("LDAP_URL", "ldaps://ldap.example.com:636")
	t.Setenv("LDAP_TIMEOUT", "3s")
	t.Setenv("LOGIN_RATE_LIMIT", "12")
	t.Setenv("USER_CACHE_TTL", "not-a-duration")

	cfg := Load()

	assert.Equal(t, DatabaseDriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "host=db user=auth", cfg.DatabaseDSN)
	assert.True(t, cfg.LDAPEnabled)
	assert.Equal(t, "ldaps://ldap.example.com:636", cfg.LDAPURL)
	assert.Equal(t, 3*time.Second, cfg.LDAPTimeout)
	assert.Equal(t, 12, cfg.LoginRateLimit)
	assert.Equal(t, 5*time.Minute, cfg.UserCacheTTL, "invalid durations fall back to the default")
	assert.Equal(t, "uid", cfg.LDAPUsernameAttr)
}

func TestLoad_SQLiteDefaultPath(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DATABASE_PATH", "/tmp/auth.db")

	cfg := Load()
	assert.Equal(t, DatabaseDriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "/tmp/auth.db", cfg.DatabaseDSN)
}
