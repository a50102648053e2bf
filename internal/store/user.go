package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-authgate/hybridauth/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectoryProfile carries the attributes read from a directory entry.
type DirectoryProfile struct {
	Username  string
	DN        string
	Email     string
	FirstName string
	LastName  string
}

// FindActiveByUsername returns every non-deleted user with an exactly matching
// username, memberships included. Rows with an unknown provider tag make the
// query fail with an error wrapping models.ErrInvalidProvider.
func (s *Store) FindActiveByUsername(ctx context.Context, username string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Memberships").
		Where("username = ?", username).
		Order("created_at").
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Memberships").
		Where("username = ?", username).
		First(&user).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Memberships").
		Where("id = ?", id).
		First(&user).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Provider == "" {
		user.Provider = models.ProviderLocal
	}
	return s.db.WithContext(ctx).Create(user).Error
}

// DeleteUser soft-deletes the user; the row stays but is no longer active
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error; err != nil {
		return err
	}
	s.userChanged(ctx, id)
	return nil
}

func (s *Store) AddMembership(ctx context.Context, m *models.Membership) error {
	return s.db.WithContext(ctx).Create(m).Error
}

// UpsertDirectoryUser creates the local record for a directory user on first
// login and refreshes its profile on later logins. The record is found by
// entry DN first, then by username. A username held by an active local
// account is a conflict.
func (s *Store) UpsertDirectoryUser(ctx context.Context, p DirectoryProfile) (*models.User, error) {
	var id string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUsername(tx, p.Username); err != nil {
			return err
		}

		existing, err := findDirectoryRecord(tx, p)
		if err != nil {
			return err
		}

		if existing == nil {
			user := &models.User{
				ID:         uuid.New().String(),
				Username:   p.Username,
				Provider:   models.ProviderLDAP,
				ExternalID: p.DN,
				Email:      p.Email,
				FirstName:  p.FirstName,
				LastName:   p.LastName,
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("failed to create directory user: %w", err)
			}
			id = user.ID
			return nil
		}

		if err := tx.Model(existing).Updates(map[string]any{
			"username":    p.Username,
			"external_id": p.DN,
			"email":       p.Email,
			"first_name":  p.FirstName,
			"last_name":   p.LastName,
		}).Error; err != nil {
			return fmt.Errorf("failed to update directory user: %w", err)
		}
		id = existing.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.userChanged(ctx, id)
	return s.GetUserByID(ctx, id)
}

// findDirectoryRecord returns the active ldap record for the profile, or nil
// when there is none yet. Any other active holder of the username is a
// conflict.
func findDirectoryRecord(tx *gorm.DB, p DirectoryProfile) (*models.User, error) {
	var byUsername []models.User
	if err := tx.Where("username = ?", p.Username).Find(&byUsername).Error; err != nil {
		return nil, fmt.Errorf("failed to query directory user: %w", err)
	}

	var byDN []models.User
	if p.DN != "" {
		if err := tx.Where("external_id = ? AND provider = ?", p.DN, models.ProviderLDAP).
			Find(&byDN).Error; err != nil {
			return nil, fmt.Errorf("failed to query directory user: %w", err)
		}
	}

	switch {
	case len(byUsername) > 1, len(byDN) > 1:
		return nil, ErrUsernameConflict
	case len(byUsername) == 1 && byUsername[0].Provider != models.ProviderLDAP:
		return nil, ErrUsernameConflict
	case len(byDN) == 1 && len(byUsername) == 1 && byDN[0].ID != byUsername[0].ID:
		return nil, ErrUsernameConflict
	case len(byDN) == 1:
		return &byDN[0], nil
	case len(byUsername) == 1:
		return &byUsername[0], nil
	default:
		return nil, nil
	}
}

// lockUsername serializes first logins for one username until the
// transaction ends. SQLite already allows a single writer at a time.
func lockUsername(tx *gorm.DB, username string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "directory_user:"+username).Error; err != nil {
		return fmt.Errorf("failed to lock directory user: %w", err)
	}
	return nil
}
