package store

import "errors"

var (
	// ErrUsernameConflict is returned when a directory login collides with
	// a username already owned by a local account
	ErrUsernameConflict = errors.New("username already exists")

	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")
)
