package auth

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrIdentityLookup matches every *IdentityLookupError
	ErrIdentityLookup = errors.New("identity lookup failed")

	// ErrAmbiguousIdentity matches every *AmbiguousIdentityError
	ErrAmbiguousIdentity = errors.New("ambiguous identity")

	// ErrNotAuthenticated is returned by CompleteLogin when no user was verified first
	ErrNotAuthenticated = errors.New("no authenticated user on request")

	// Directory errors
	ErrDirectoryDisabled  = errors.New("directory authentication is disabled")
	ErrLDAPConnection     = errors.New("failed to reach LDAP server")
	ErrLDAPAmbiguousEntry = errors.New("directory search matched more than one entry")
)

// IdentityLookupError reports that the identity store query itself failed.
type IdentityLookupError struct {
	Username string
	Err      error
}

func (e *IdentityLookupError) Error() string {
	return fmt.Sprintf("identity lookup for %q failed: %v", e.Username, e.Err)
}

func (e *IdentityLookupError) Unwrap() []error {
	return []error{ErrIdentityLookup, e.Err}
}

// AmbiguousIdentityError reports a broken uniqueness invariant: several
// active records share a username, or a record carries an unknown provider.
type AmbiguousIdentityError struct {
	Username string
	Matches  int   // zero when the count is unknown
	Err      error // underlying cause, e.g. models.ErrInvalidProvider
}

func (e *AmbiguousIdentityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ambiguous identity %q: %v", e.Username, e.Err)
	}
	return fmt.Sprintf("ambiguous identity %q: %d active records", e.Username, e.Matches)
}

func (e *AmbiguousIdentityError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAmbiguousIdentity}
	}
	return []error{ErrAmbiguousIdentity, e.Err}
}
