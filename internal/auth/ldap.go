package auth

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"

	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/core"
	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"
)

// ldapConn is the subset of *ldap.Conn the directory backend uses.
type ldapConn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close()
}

// Dialer opens a ready-to-use directory connection (TLS already negotiated).
type Dialer func(ctx context.Context) (ldapConn, error)

// DirectoryStore provisions local records for directory users.
type DirectoryStore interface {
	UpsertDirectoryUser(ctx context.Context, p store.DirectoryProfile) (*models.User, error)
}

var _ core.BasicVerifier = (*LDAPStrategy)(nil)

// LDAPStrategy verifies credentials by binding to an LDAP directory and
// keeps a local record of every directory user that signs in.
type LDAPStrategy struct {
	cfg   *config.Config
	store DirectoryStore
	users core.Cache[models.User]
	dial  Dialer
	log   *zap.Logger
}

// LDAPOption customizes an LDAPStrategy
type LDAPOption func(*LDAPStrategy)

// WithDialer replaces the network dialer
func WithDialer(d Dialer) LDAPOption {
	return func(s *LDAPStrategy) {
		s.dial = d
	}
}

func NewLDAPStrategy(
	cfg *config.Config,
	s DirectoryStore,
	users core.Cache[models.User],
	log *zap.Logger,
	opts ...LDAPOption,
) *LDAPStrategy {
	strategy := &LDAPStrategy{
		cfg:   cfg,
		store: s,
		users: users,
		dial:  dialURL(cfg),
		log:   log,
	}
	for _, opt := range opts {
		opt(strategy)
	}
	return strategy
}

// Name returns provider name for logging
func (s *LDAPStrategy) Name() string {
	return string(models.ProviderLDAP)
}

// VerifyBasic looks the user up with the service account, binds as the
// user's entry to check the password, then provisions the local record.
func (s *LDAPStrategy) VerifyBasic(
	ctx context.Context,
	c *gin.Context,
	username, password string,
) (*models.User, error) {
	// An empty password would be an unauthenticated bind, which most servers accept.
	if password == "" {
		return nil, ErrInvalidCredentials
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLDAPConnection, err)
	}
	defer conn.Close()

	// go-ldap has no context support; closing the connection aborts the pending operation.
	stop := context.AfterFunc(ctx, conn.Close)
	defer stop()

	if s.cfg.LDAPBindDN != "" {
		if err := conn.Bind(s.cfg.LDAPBindDN, s.cfg.LDAPBindPassword); err != nil {
			return nil, fmt.Errorf("%w: service bind: %v", ErrLDAPConnection, err)
		}
	}

	entry, err := s.findEntry(conn, username)
	if err != nil {
		return nil, err
	}

	if err := conn.Bind(entry.DN, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: user bind: %v", ErrLDAPConnection, err)
	}

	user, err := s.store.UpsertDirectoryUser(ctx, store.DirectoryProfile{
		Username:  s.canonicalUsername(entry, username),
		DN:        entry.DN,
		Email:     entry.GetAttributeValue(s.cfg.LDAPEmailAttr),
		FirstName: entry.GetAttributeValue(s.cfg.LDAPFirstNameAttr),
		LastName:  entry.GetAttributeValue(s.cfg.LDAPLastNameAttr),
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.Delete(ctx, UserCacheKey(user.ID)); err != nil {
		s.log.Warn("failed to invalidate user cache", zap.String("user_id", user.ID), zap.Error(err))
	}

	return user, nil
}

func (s *LDAPStrategy) findEntry(conn ldapConn, username string) (*ldap.Entry, error) {
	req := ldap.NewSearchRequest(
		s.cfg.LDAPBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		2, // more than one hit is already an error
		int(s.cfg.LDAPTimeout.Seconds()),
		false,
		s.searchFilter(username),
		[]string{
			"dn",
			s.cfg.LDAPUsernameAttr,
			s.cfg.LDAPEmailAttr,
			s.cfg.LDAPFirstNameAttr,
			s.cfg.LDAPLastNameAttr,
		},
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) {
			return nil, ErrLDAPAmbiguousEntry
		}
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: search: %v", ErrLDAPConnection, err)
	}

	switch len(res.Entries) {
	case 0:
		return nil, ErrInvalidCredentials
	case 1:
		return res.Entries[0], nil
	default:
		return nil, ErrLDAPAmbiguousEntry
	}
}

// canonicalUsername returns the entry's own spelling of the username, since
// directories usually match it case-insensitively.
func (s *LDAPStrategy) canonicalUsername(entry *ldap.Entry, typed string) string {
	if v := entry.GetAttributeValue(s.cfg.LDAPUsernameAttr); v != "" {
		return v
	}
	return typed
}

func (s *LDAPStrategy) searchFilter(username string) string {
	match := fmt.Sprintf("(%s=%s)", s.cfg.LDAPUsernameAttr, ldap.EscapeFilter(username))
	if s.cfg.LDAPUserFilter == "" {
		return match
	}
	return fmt.Sprintf("(&%s%s)", s.cfg.LDAPUserFilter, match)
}

// directoryConn adapts *ldap.Conn to ldapConn
type directoryConn struct {
	*ldap.Conn
}

func (c directoryConn) Close() {
	c.Conn.Close()
}

// dialURL connects to cfg.LDAPURL, upgrading with StartTLS when configured
func dialURL(cfg *config.Config) Dialer {
	return func(ctx context.Context) (ldapConn, error) {
		serverName := ""
		if u, err := url.Parse(cfg.LDAPURL); err == nil {
			serverName = u.Hostname()
		}
		// #nosec G402 -- InsecureSkipVerify is user-configurable for development/testing
		tlsConfig := &tls.Config{
			ServerName:         serverName,
			InsecureSkipVerify: cfg.LDAPInsecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		}

		dialer := &net.Dialer{Timeout: cfg.LDAPTimeout}
		if deadline, ok := ctx.Deadline(); ok {
			dialer.Deadline = deadline
		}

		conn, err := ldap.DialURL(
			cfg.LDAPURL,
			ldap.DialWithDialer(dialer),
			ldap.DialWithTLSConfig(tlsConfig),
		)
		if err != nil {
			return nil, err
		}
		conn.SetTimeout(cfg.LDAPTimeout)

		if cfg.LDAPStartTLS {
			if err := conn.StartTLS(tlsConfig); err != nil {
				conn.Close()
				return nil, fmt.Errorf("starttls: %w", err)
			}
		}

		return directoryConn{conn}, nil
	}
}
