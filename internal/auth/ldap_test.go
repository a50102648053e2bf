package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-authgate/hybridauth/internal/cache"
	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/models"
	"github.com/go-authgate/hybridauth/internal/store"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testBindDN = "cn=svc,dc=example,dc=com"
	bobDN      = "uid=bob,ou=people,dc=example,dc=com"
)

// fakeDirectory is an in-memory ldapConn: entries by DN with their passwords
type fakeDirectory struct {
	mu        sync.Mutex
	entries   []*ldap.Entry
	passwords map[string]string
	searchErr error
	filters   []string
	binds     []string
	closed    int
}

func (f *fakeDirectory) Bind(dn, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.binds = append(f.binds, dn)
	if pw, ok := f.passwords[dn]; ok && pw == password {
		return nil
	}
	return ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials"))
}

func (f *fakeDirectory) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, req.Filter)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &ldap.SearchResult{Entries: f.entries}, nil
}

func (f *fakeDirectory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
}

func (f *fakeDirectory) dialer() Dialer {
	return func(context.Context) (ldapConn, error) {
		return f, nil
	}
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		entries: []*ldap.Entry{
			ldap.NewEntry(bobDN, map[string][]string{
				"uid":       {"bob"},
				"mail":      {"bob@example.com"},
				"givenName": {"Bob"},
				"sn":        {"Builder"},
			}),
		},
		passwords: map[string]string{
			testBindDN: "svc-password",
			bobDN:      "can-we-fix-it",
		},
	}
}

func ldapTestConfig() *config.Config {
	cfg := testConfig()
	cfg.LDAPEnabled = true
	cfg.LDAPURL = "ldap://127.0.0.1:1"
	cfg.LDAPBaseDN = "dc=example,dc=com"
	cfg.LDAPBindDN = testBindDN
	cfg.LDAPBindPassword = "svc-password"
	cfg.LDAPUserFilter = "(objectClass=person)"
	cfg.LDAPUsernameAttr = "uid"
	cfg.LDAPEmailAttr = "mail"
	cfg.LDAPFirstNameAttr = "givenName"
	cfg.LDAPLastNameAttr = "sn"
	cfg.LDAPTimeout = time.Second
	return cfg
}

func newTestLDAPStrategy(t *testing.T, dir *fakeDirectory) (*LDAPStrategy, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	strategy := NewLDAPStrategy(
		ldapTestConfig(),
		s,
		cache.NewMemoryCache[models.User](),
		zap.NewNop(),
		WithDialer(dir.dialer()),
	)
	return strategy, s
}

func TestLDAPStrategy_VerifyBasic_ProvisionsUser(t *testing.T) {
	dir := newFakeDirectory()
	strategy, s := newTestLDAPStrategy(t, dir)
	ctx := context.Background()

	user, err := strategy.VerifyBasic(ctx, nil, "bob", "can-we-fix-it")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderLDAP, user.Provider)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, "Bob Builder", user.FullName())
	assert.Equal(t, bobDN, user.ExternalID)

	assert.Equal(t, []string{testBindDN, bobDN}, dir.binds)
	assert.Equal(t, []string{"(&(objectClass=person)(uid=bob))"}, dir.filters)
	assert.Equal(t, 1, dir.closed)

	// second login refreshes the same record
	dir.entries[0] = ldap.NewEntry(bobDN, map[string][]string{
		"uid":  {"bob"},
		"mail": {"robert@example.com"},
	})
	again, err := strategy.VerifyBasic(ctx, nil, "bob", "can-we-fix-it")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "robert@example.com", again.Email)

	users, err := s.FindActiveByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLDAPStrategy_VerifyBasic_CanonicalUsername(t *testing.T) {
	dir := newFakeDirectory()
	strategy, s := newTestLDAPStrategy(t, dir)
	ctx := context.Background()

	lower, err := strategy.VerifyBasic(ctx, nil, "bob", "can-we-fix-it")
	require.NoError(t, err)
	upper, err := strategy.VerifyBasic(ctx, nil, "Bob", "can-we-fix-it")
	require.NoError(t, err)

	assert.Equal(t, lower.ID, upper.ID)
	assert.Equal(t, "bob", upper.Username)

	var rows int64
	require.NoError(t, s.DB().Model(&models.User{}).Where("external_id = ?", bobDN).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestLDAPStrategy_VerifyBasic_NoUsernameAttribute(t *testing.T) {
	dir := newFakeDirectory()
	dir.entries[0] = ldap.NewEntry(bobDN, map[string][]string{"mail": {"bob@example.com"}})
	strategy, _ := newTestLDAPStrategy(t, dir)

	user, err := strategy.VerifyBasic(context.Background(), nil, "bob", "can-we-fix-it")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
}

func TestLDAPStrategy_VerifyBasic_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*fakeDirectory, *config.Config)
		username string
		password string
		wantErr  error
	}{
		{
			name:     "wrong password",
			username: "bob",
			password: "no-we-cant",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "empty password",
			username: "bob",
			password: "",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "no entry",
			setup:    func(f *fakeDirectory, _ *config.Config) { f.entries = nil },
			username: "bob",
			password: "can-we-fix-it",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "two entries",
			setup: func(f *fakeDirectory, _ *config.Config) {
				f.entries = append(f.entries, ldap.NewEntry("uid=bob,ou=contractors,dc=example,dc=com", nil))
			},
			username: "bob",
			password: "can-we-fix-it",
			wantErr:  ErrLDAPAmbiguousEntry,
		},
		{
			name:     "service bind rejected",
			setup:    func(_ *fakeDirectory, cfg *config.Config) { cfg.LDAPBindPassword = "stale" },
			username: "bob",
			password: "can-we-fix-it",
			wantErr:  ErrLDAPConnection,
		},
		{
			name: "search fails",
			setup: func(f *fakeDirectory, _ *config.Config) {
				f.searchErr = ldap.NewError(ldap.LDAPResultBusy, errors.New("busy"))
			},
			username: "bob",
			password: "can-we-fix-it",
			wantErr:  ErrLDAPConnection,
		},
		{
			name: "size limit exceeded",
			setup: func(f *fakeDirectory, _ *config.Config) {
				f.searchErr = ldap.NewError(ldap.LDAPResultSizeLimitExceeded, errors.New("size limit"))
			},
			username: "bob",
			password: "can-we-fix-it",
			wantErr:  ErrLDAPAmbiguousEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newFakeDirectory()
			cfg := ldapTestConfig()
			if tt.setup != nil {
				tt.setup(dir, cfg)
			}
			strategy := NewLDAPStrategy(
				cfg,
				newTestStore(t),
				cache.NewMemoryCache[models.User](),
				zap.NewNop(),
				WithDialer(dir.dialer()),
			)

			user, err := strategy.VerifyBasic(context.Background(), nil, tt.username, tt.password)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLDAPStrategy_VerifyBasic_EscapesFilter(t *testing.T) {
	dir := newFakeDirectory()
	dir.entries = nil
	strategy, _ := newTestLDAPStrategy(t, dir)

	_, err := strategy.VerifyBasic(context.Background(), nil, "*)(uid=*", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.Len(t, dir.filters, 1)
	assert.Equal(t, `(&(objectClass=person)(uid=\2a\29\28uid=\2a))`, dir.filters[0])
}

func TestLDAPStrategy_VerifyBasic_AnonymousSearch(t *testing.T) {
	dir := newFakeDirectory()
	cfg := ldapTestConfig()
	cfg.LDAPBindDN = ""
	cfg.LDAPUserFilter = ""
	strategy := NewLDAPStrategy(cfg, newTestStore(t), cache.NewMemoryCache[models.User](),
		zap.NewNop(), WithDialer(dir.dialer()))

	_, err := strategy.VerifyBasic(context.Background(), nil, "bob", "can-we-fix-it")
	require.NoError(t, err)
	assert.Equal(t, []string{bobDN}, dir.binds)
	assert.Equal(t, []string{"(uid=bob)"}, dir.filters)
}

func TestLDAPStrategy_VerifyBasic_LocalUsernameConflict(t *testing.T) {
	dir := newFakeDirectory()
	strategy, s := newTestLDAPStrategy(t, dir)
	createLocalUser(t, s, "bob", "local-pw")

	_, err := strategy.VerifyBasic(context.Background(), nil, "bob", "can-we-fix-it")
	assert.ErrorIs(t, err, store.ErrUsernameConflict)
}

func TestLDAPStrategy_VerifyBasic_DialFailure(t *testing.T) {
	strategy := NewLDAPStrategy(
		ldapTestConfig(),
		newTestStore(t),
		cache.NewMemoryCache[models.User](),
		zap.NewNop(),
		WithDialer(func(context.Context) (ldapConn, error) {
			return nil, errors.New("connection refused")
		}),
	)

	_, err := strategy.VerifyBasic(context.Background(), nil, "bob", "pw")
	assert.ErrorIs(t, err, ErrLDAPConnection)
}

func TestLDAPStrategy_VerifyBasic_UnreachableServer(t *testing.T) {
	strategy := NewLDAPStrategy(
		ldapTestConfig(),
		newTestStore(t),
		cache.NewMemoryCache[models.User](),
		zap.NewNop(),
	)

	_, err := strategy.VerifyBasic(context.Background(), nil, "bob", "pw")
	assert.ErrorIs(t, err, ErrLDAPConnection)
}

func TestLDAPStrategy_VerifyBasic_CancelledContextClosesConn(t *testing.T) {
	dir := newFakeDirectory()
	strategy, _ := newTestLDAPStrategy(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The fake ignores the close, so the call completes; the
	// connection must still have been closed by the cancellation hook.
	_, _ = strategy.VerifyBasic(ctx, nil, "bob", "can-we-fix-it")
	assert.Eventually(t, func() bool {
		dir.mu.Lock()
		defer dir.mu.Unlock()
		return dir.closed >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestLDAPStrategy_Name(t *testing.T) {
	strategy := NewLDAPStrategy(ldapTestConfig(), nil, nil, zap.NewNop())
	assert.Equal(t, "ldap", strategy.Name())
}
