package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string   `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"index;not null" json:"username"`
	Provider     Provider `gorm:"type:varchar(16);not null;default:'local'" json:"provider"`
	PasswordHash string   `json:"-"` // empty for directory users
	Email        string   `json:"email,omitempty"`
	FirstName    string   `json:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty"`
	Admin        bool     `gorm:"not null;default:false" json:"admin"`

	// ExternalID holds the directory entry DN for ldap users
	ExternalID string `gorm:"index" json:"external_id,omitempty"`

	Memberships []Membership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsLocal returns true if the user's password is checked against the local store
func (u *User) IsLocal() bool {
	return u.Provider == ProviderLocal
}

// FullName joins first and last name, skipping empty parts
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Can reports whether the user holds perm (or a stronger permission) on the resource.
// Admins can do anything.
func (u *User) Can(scope MembershipScope, resourceID string, perm Permission) bool {
	if u.Admin {
		return true
	}
	for _, m := range u.Memberships {
		if m.Scope == scope && m.ResourceID == resourceID && m.Permission.Includes(perm) {
			return true
		}
	}
	return false
}
