package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// User cache type constants
const (
	UserCacheTypeMemory = "memory"
	UserCacheTypeRedis  = "redis"
)

// Database driver constants
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

const minJWTSecretLength = 32

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool
	LogLevel     string

	// JWT settings
	JWTSecret     string
	JWTExpiration time.Duration

	// Session settings
	SessionSecret string
	SessionMaxAge int // seconds

	// Database
	DatabaseDriver       string // "sqlite" or "postgres"
	DatabaseDSN          string
	DBInitTimeout        time.Duration
	DefaultAdminPassword string // random when empty

	// LDAP directory
	LDAPEnabled            bool
	LDAPURL                string // ldap://host:389 or ldaps://host:636
	LDAPStartTLS           bool
	LDAPInsecureSkipVerify bool
	LDAPBindDN             string
	LDAPBindPassword       string
	LDAPBaseDN             string
	LDAPUserFilter         string // extra filter ANDed with the username match
	LDAPUsernameAttr       string
	LDAPEmailAttr          string
	LDAPFirstNameAttr      string
	LDAPLastNameAttr       string
	LDAPTimeout            time.Duration

	// Redis (user cache and rate limiting)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisConnTimeout time.Duration

	// User cache
	UserCacheType string // "memory" or "redis"
	UserCacheTTL  time.Duration

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	LoginRateLimit           int    // requests per minute
	RateLimitCleanupInterval time.Duration

	// Metrics
	MetricsEnabled bool
	MetricsToken   string // Bearer token for /metrics, empty means open
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	driver := getEnv("DATABASE_DRIVER", DatabaseDriverSQLite)
	var dsn string
	if driver == DatabaseDriverSQLite {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "hybridauth.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		IsProduction: getEnvBool("ENVIRONMENT_PRODUCTION", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		JWTSecret:     getEnv("JWT_SECRET", "your-256-bit-secret-change-in-production"),
		JWTExpiration: getEnvDuration("JWT_EXPIRATION", 8*time.Hour),

		SessionSecret: getEnv("SESSION_SECRET", "session-secret-change-in-production"),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 8*3600),

		DatabaseDriver:       driver,
		DatabaseDSN:          dsn,
		DBInitTimeout:        getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", ""),

		LDAPEnabled:            getEnvBool("LDAP_ENABLED", false),
		LDAPURL:                getEnv("LDAP_URL", ""),
		LDAPStartTLS:           getEnvBool("LDAP_START_TLS", false),
		LDAPInsecureSkipVerify: getEnvBool("LDAP_INSECURE_SKIP_VERIFY", false),
		LDAPBindDN:             getEnv("LDAP_BIND_DN", ""),
		LDAPBindPassword:       getEnv("LDAP_BIND_PASSWORD", ""),
		LDAPBaseDN:             getEnv("LDAP_BASE_DN", ""),
		LDAPUserFilter:         getEnv("LDAP_USER_FILTER", "(objectClass=person)"),
		LDAPUsernameAttr:       getEnv("LDAP_USERNAME_ATTR", "uid"),
		LDAPEmailAttr:          getEnv("LDAP_EMAIL_ATTR", "mail"),
		LDAPFirstNameAttr:      getEnv("LDAP_FIRST_NAME_ATTR", "givenName"),
		LDAPLastNameAttr:       getEnv("LDAP_LAST_NAME_ATTR", "sn"),
		LDAPTimeout:            getEnvDuration("LDAP_TIMEOUT", 10*time.Second),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisConnTimeout: getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),

		UserCacheType: getEnv("USER_CACHE_TYPE", UserCacheTypeMemory),
		UserCacheTTL:  getEnvDuration("USER_CACHE_TTL", 5*time.Minute),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		LoginRateLimit:           getEnvInt("LOGIN_RATE_LIMIT", 5),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),
	}
}

// Validate checks the configuration for values that cannot work at runtime
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER value: %q (must be %q or %q)",
			c.DatabaseDriver, DatabaseDriverSQLite, DatabaseDriverPostgres)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}

	if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
		return fmt.Errorf("invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis)
	}

	if c.UserCacheType != UserCacheTypeMemory && c.UserCacheType != UserCacheTypeRedis {
		return fmt.Errorf("invalid USER_CACHE_TYPE value: %q (must be %q or %q)",
			c.UserCacheType, UserCacheTypeMemory, UserCacheTypeRedis)
	}
	if c.UserCacheTTL <= 0 {
		return fmt.Errorf("USER_CACHE_TTL must be positive, got %s", c.UserCacheTTL)
	}

	if c.NeedsRedis() && c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required when redis is used for caching or rate limiting")
	}

	if c.LDAPEnabled {
		if c.LDAPURL == "" {
			return errors.New("LDAP_URL is required when LDAP_ENABLED=true")
		}
		if c.LDAPBaseDN == "" {
			return errors.New("LDAP_BASE_DN is required when LDAP_ENABLED=true")
		}
		if c.LDAPUsernameAttr == "" {
			return errors.New("LDAP_USERNAME_ATTR must not be empty")
		}
	}

	if c.IsProduction && len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production", minJWTSecretLength)
	}

	return nil
}

// NeedsRedis reports whether the user cache or the rate limiter uses redis
func (c *Config) NeedsRedis() bool {
	return c.UserCacheType == UserCacheTypeRedis ||
		(c.EnableRateLimit && c.RateLimitStore == RateLimitStoreRedis)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}
