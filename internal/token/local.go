package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/hybridauth/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalTokenProvider generates and validates HS256 session tokens
type LocalTokenProvider struct {
	config *config.Config
}

func NewLocalTokenProvider(cfg *config.Config) *LocalTokenProvider {
	return &LocalTokenProvider{config: cfg}
}

// GenerateToken signs a session token for the user
func (p *LocalTokenProvider) GenerateToken(
	ctx context.Context,
	userID, username string,
) (*Result, error) {
	now := time.Now()
	expiresAt := now.Add(p.config.JWTExpiration)

	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"type":     tokenKindSession,
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
		"iss":      p.config.BaseURL,
		"sub":      userID,
		"jti":      uuid.New().String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(p.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &Result{
		TokenString: signed,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   expiresAt,
		Claims:      claims,
	}, nil
}

// ValidateToken verifies signature, expiry and token type
func (p *LocalTokenProvider) ValidateToken(
	ctx context.Context,
	tokenString string,
) (*ValidationResult, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(p.config.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if kind, _ := claims["type"].(string); kind != tokenKindSession {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, kind)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	username, _ := claims["username"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &ValidationResult{
		UserID:    userID,
		Username:  username,
		ExpiresAt: exp.Time,
		Claims:    claims,
	}, nil
}

// Name returns provider name for logging
func (p *LocalTokenProvider) Name() string {
	return "local"
}
