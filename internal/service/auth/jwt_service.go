package auth

import (
	"context"
	"time"
)

// TokenType distinguishes the purposes a signed token can serve.
type TokenType string

const (
	// AccessToken is sent as a bearer token on API calls.
	AccessToken TokenType = "access"

	// RefreshToken lives in an HttpOnly cookie scoped to the refresh endpoint.
	RefreshToken TokenType = "refresh"

	// SessionToken lives in an HttpOnly cookie and authenticates browser requests.
	SessionToken TokenType = "session"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed token of the given type for subject (the user's email).
	GenerateToken(ctx context.Context, tokenType TokenType, subject string) (string, error)

	// ValidateToken verifies signature, expiry and type, and extracts the claims.
	// Returns ErrExpiredToken for an expired token, ErrWrongTokenType for a
	// token of another type, and ErrInvalidToken for anything else.
	ValidateToken(ctx context.Context, tokenType TokenType, tokenString string) (*Claims, error)

	// GenerateTokenSet issues a fresh access, refresh and session token for subject.
	GenerateTokenSet(ctx context.Context, subject string) (*TokenSet, error)

	// Lifetime reports how long tokens of the given type stay valid.
	Lifetime(tokenType TokenType) time.Duration
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// TokenType indicates the purpose of the token.
	TokenType TokenType `json:"type,omitempty"`

	// Subject is the email of the user the token was issued for.
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// TokenSet is issued on login and rotated on refresh.
type TokenSet struct {
	AccessToken     string
	RefreshToken    string
	SessionToken    string
	AccessExpiresAt time.Time
}
