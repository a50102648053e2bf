package models

import "time"

// MembershipScope is the kind of resource a membership points at
type MembershipScope string

const (
	ScopeOrg     MembershipScope = "org"
	ScopeProject MembershipScope = "project"
)

// Permission is an access level on an org or project
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAdmin Permission = "admin"
)

func (p Permission) rank() int {
	switch p {
	case PermissionRead:
		return 1
	case PermissionWrite:
		return 2
	case PermissionAdmin:
		return 3
	default:
		return 0
	}
}

// Includes returns true if p grants at least other.
// admin implies write, write implies read.
func (p Permission) Includes(other Permission) bool {
	r := other.rank()
	return r > 0 && p.rank() >= r
}

// Membership links a user to an org or project with a permission level.
type Membership struct {
	ID         uint            `gorm:"primaryKey" json:"-"`
	UserID     string          `gorm:"index;not null" json:"-"`
	Scope      MembershipScope `gorm:"type:varchar(16);not null" json:"scope"`
	ResourceID string          `gorm:"not null" json:"resource_id"`
	Permission Permission      `gorm:"type:varchar(16);not null;default:read" json:"permission"`
	CreatedAt  time.Time       `json:"created_at"`
}
