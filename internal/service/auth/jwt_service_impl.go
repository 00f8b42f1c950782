package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey []byte
	lifetimes  map[TokenType]time.Duration
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration    // Allowed time difference for validation to handle clock drift
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return newJWTService(cfg, time.Now)
}

func newJWTService(cfg config.AuthConfig, timeFunc func() time.Time) (*hmacJWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	lifetimes := map[TokenType]time.Duration{
		AccessToken:  time.Duration(cfg.AccessTokenLifetimeMinutes) * time.Minute,
		RefreshToken: time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
		SessionToken: time.Duration(cfg.SessionLifetimeMinutes) * time.Minute,
	}
	for tokenType, lifetime := range lifetimes {
		if lifetime <= 0 {
			return nil, fmt.Errorf("%s token lifetime must be positive", tokenType)
		}
	}

	return &hmacJWTService{
		signingKey: []byte(cfg.JWTSecret),
		lifetimes:  lifetimes,
		timeFunc:   timeFunc,
		clockSkew:  2 * time.Minute,
	}, nil
}

// Lifetime implements JWTService.Lifetime.
func (s *hmacJWTService) Lifetime(tokenType TokenType) time.Duration {
	return s.lifetimes[tokenType]
}

// GenerateToken creates a signed JWT of the given type.
func (s *hmacJWTService) GenerateToken(
	ctx context.Context,
	tokenType TokenType,
	subject string,
) (string, error) {
	token, _, err := s.sign(ctx, tokenType, subject, s.timeFunc())
	return token, err
}

func (s *hmacJWTService) sign(
	ctx context.Context,
	tokenType TokenType,
	subject string,
	now time.Time,
) (string, time.Time, error) {
	log := logger.FromContext(ctx)

	lifetime, ok := s.lifetimes[tokenType]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token type %q", tokenType)
	}
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("token subject cannot be empty")
	}

	expiresAt := now.Add(lifetime)
	claims := jwtCustomClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			"error", err,
			"token_type", tokenType,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", time.Time{}, fmt.Errorf("failed to sign %s token with HMAC-SHA256: %w", tokenType, err)
	}

	return signedToken, expiresAt, nil
}

// GenerateTokenSet implements JWTService.GenerateTokenSet.
func (s *hmacJWTService) GenerateTokenSet(ctx context.Context, subject string) (*TokenSet, error) {
	now := s.timeFunc()

	access, accessExpiry, err := s.sign(ctx, AccessToken, subject, now)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.sign(ctx, RefreshToken, subject, now)
	if err != nil {
		return nil, err
	}
	session, _, err := s.sign(ctx, SessionToken, subject, now)
	if err != nil {
		return nil, err
	}

	return &TokenSet{
		AccessToken:     access,
		RefreshToken:    refresh,
		SessionToken:    session,
		AccessExpiresAt: accessExpiry,
	}, nil
}

// ValidateToken validates a JWT and returns the claims if it is valid and of tokenType.
func (s *hmacJWTService) ValidateToken(
	ctx context.Context,
	tokenType TokenType,
	tokenString string,
) (*Claims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
		jwt.WithExpirationRequired(),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "token_type", tokenType)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", "token_type", tokenType)
			return nil, ErrTokenNotYetValid
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token", "token_type", tokenType)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature", "token_type", tokenType)
		default:
			log.Debug("token validation failed: other validation error",
				"token_type", tokenType,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	if claims.TokenType != tokenType {
		log.Debug("token validation failed: wrong token type",
			"expected", tokenType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	result := &Claims{
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}

	log.Debug("token validated",
		"token_type", tokenType,
		"token_id", claims.ID,
		"expiry", claims.ExpiresAt.Time)
	return result, nil
}
