package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/go-authgate/hybridauth/internal/config"
	"github.com/go-authgate/hybridauth/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// UserChangeHook is called after a user row was deleted or rewritten, so
// copies held outside the database can be dropped.
type UserChangeHook func(ctx context.Context, userID string)

type Store struct {
	db  *gorm.DB
	log *zap.Logger

	hooksMu sync.RWMutex
	hooks   []UserChangeHook
}

func New(
	ctx context.Context,
	driver, dsn string,
	cfg *config.Config,
	log *zap.Logger,
) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Membership{},
	); err != nil {
		return nil, err
	}

	s := &Store{db: db, log: log}

	if err := s.seedData(ctx, cfg); err != nil {
		log.Warn("failed to seed data", zap.Error(err))
	}

	return s, nil
}

// generateRandomPassword generates a random password of specified length
func generateRandomPassword(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}

// seedData creates a local admin account when the user table is empty.
func (s *Store) seedData(ctx context.Context, cfg *config.Config) error {
	var userCount int64
	if err := s.db.WithContext(ctx).Unscoped().Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return nil
	}

	password := ""
	if cfg != nil {
		password = cfg.DefaultAdminPassword
	}
	generated := password == ""
	if generated {
		var err error
		if password, err = generateRandomPassword(16); err != nil {
			return err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           uuid.New().String(),
		Username:     "admin",
		Provider:     models.ProviderLocal,
		PasswordHash: string(hash),
		Admin:        true,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if generated {
		s.log.Info("created default admin user", zap.String("username", admin.Username),
			zap.String("password", password))
	} else {
		s.log.Info("created default admin user", zap.String("username", admin.Username))
	}
	return nil
}

// Health pings the underlying connection pool
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the gorm handle for tests and migrations
func (s *Store) DB() *gorm.DB {
	return s.db
}

// OnUserChanged registers fn to run after DeleteUser and UpsertDirectoryUser.
func (s *Store) OnUserChanged(fn UserChangeHook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Store) userChanged(ctx context.Context, userID string) {
	s.hooksMu.RLock()
	defer s.hooksMu.RUnlock()
	for _, fn := range s.hooks {
		fn(ctx, userID)
	}
}
