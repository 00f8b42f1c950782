package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, tokenType auth.TokenType, subject string) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenType auth.TokenType, tokenString string) (*auth.Claims, error)

	// GenerateTokenSetFn allows test cases to mock the GenerateTokenSet behavior
	GenerateTokenSetFn func(ctx context.Context, subject string) (*auth.TokenSet, error)

	// Default values used when functions aren't explicitly defined
	Err         error
	ValidateErr error
	Claims      *auth.Claims
	Lifetimes   map[auth.TokenType]time.Duration
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken returns "<type>:<subject>" unless GenerateTokenFn is set.
func (m *MockJWTService) GenerateToken(ctx context.Context, tokenType auth.TokenType, subject string) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, tokenType, subject)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return string(tokenType) + ":" + subject, nil
}

// ValidateToken returns Claims when set; otherwise it parses tokens in the
// "<type>:<subject>" form produced by GenerateToken.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenType auth.TokenType, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenType, tokenString)
	}
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	if m.Claims != nil {
		return m.Claims, nil
	}
	if tokenString == "" {
		return nil, auth.ErrMissingToken
	}

	prefix := string(tokenType) + ":"
	if len(tokenString) <= len(prefix) || tokenString[:len(prefix)] != prefix {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{
		TokenType: tokenType,
		Subject:   tokenString[len(prefix):],
		ExpiresAt: time.Now().Add(m.Lifetime(tokenType)),
	}, nil
}

// GenerateTokenSet builds a set from GenerateToken.
func (m *MockJWTService) GenerateTokenSet(ctx context.Context, subject string) (*auth.TokenSet, error) {
	if m.GenerateTokenSetFn != nil {
		return m.GenerateTokenSetFn(ctx, subject)
	}

	set := &auth.TokenSet{AccessExpiresAt: time.Now().Add(m.Lifetime(auth.AccessToken))}
	var err error
	if set.AccessToken, err = m.GenerateToken(ctx, auth.AccessToken, subject); err != nil {
		return nil, err
	}
	if set.RefreshToken, err = m.GenerateToken(ctx, auth.RefreshToken, subject); err != nil {
		return nil, err
	}
	if set.SessionToken, err = m.GenerateToken(ctx, auth.SessionToken, subject); err != nil {
		return nil, err
	}
	return set, nil
}

// Lifetime returns the configured lifetime, defaulting to 15m/72h/30m.
func (m *MockJWTService) Lifetime(tokenType auth.TokenType) time.Duration {
	if d, ok := m.Lifetimes[tokenType]; ok {
		return d
	}
	switch tokenType {
	case auth.RefreshToken:
		return 72 * time.Hour
	case auth.SessionToken:
		return 30 * time.Minute
	default:
		return 15 * time.Minute
	}
}
