package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProvider is returned when a provider tag is neither local nor ldap.
var ErrInvalidProvider = errors.New("invalid identity provider")

// Provider names the backend that is authoritative for a user's credentials.
type Provider string

const (
	ProviderLocal Provider = "local"
	ProviderLDAP  Provider = "ldap"
)

// ParseProvider converts a stored or configured tag into a Provider.
// "directory" is accepted as an alias for ldap.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ProviderLocal):
		return ProviderLocal, nil
	case string(ProviderLDAP), "directory":
		return ProviderLDAP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidProvider, s)
	}
}

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	return p == ProviderLocal || p == ProviderLDAP
}

func (p Provider) String() string {
	return string(p)
}

// Scan implements sql.Scanner. Rows carrying an unknown tag fail to load.
func (p *Provider) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		raw = ""
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidProvider, value)
	}

	parsed, err := ParseProvider(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer.
func (p Provider) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProvider, string(p))
	}
	return string(p), nil
}
