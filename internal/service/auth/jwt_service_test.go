package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		AccessTokenLifetimeMinutes:  15,
		RefreshTokenLifetimeMinutes: 4320,
		SessionLifetimeMinutes:      30,
		ResetTokenLifetimeMinutes:   60,
		BcryptCost:                  4,
	}
}

func newTestJWTService(t *testing.T, secret string, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newJWTService(testAuthConfig(secret), now)
	require.NoError(t, err)
	return svc
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testAuthConfig("too-short"))
	assert.Error(t, err)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, testSecret, fixedClock(fixedTime))

	for _, tokenType := range []TokenType{AccessToken, RefreshToken, SessionToken} {
		t.Run(string(tokenType), func(t *testing.T) {
			t.Parallel()

			token, err := svc.GenerateToken(context.Background(), tokenType, "user@example.com")
			require.NoError(t, err)

			claims, err := svc.ValidateToken(context.Background(), tokenType, token)
			require.NoError(t, err)
			assert.Equal(t, "user@example.com", claims.Subject)
			assert.Equal(t, tokenType, claims.TokenType)
			assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
			assert.Equal(t, fixedTime.Add(svc.Lifetime(tokenType)).Unix(), claims.ExpiresAt.Unix())
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestGenerateTokenSet(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, testSecret, fixedClock(fixedTime))

	set, err := svc.GenerateTokenSet(context.Background(), "user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, set.AccessToken, set.RefreshToken)
	assert.NotEqual(t, set.RefreshToken, set.SessionToken)
	assert.Equal(t, fixedTime.Add(15*time.Minute), set.AccessExpiresAt)

	_, err = svc.ValidateToken(context.Background(), RefreshToken, set.RefreshToken)
	assert.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), SessionToken, set.SessionToken)
	assert.NoError(t, err)
}

func TestValidateToken_Errors(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestJWTService(t, testSecret, fixedClock(issuedAt))
	access, err := issuer.GenerateToken(context.Background(), AccessToken, "user@example.com")
	require.NoError(t, err)
	refresh, err := issuer.GenerateToken(context.Background(), RefreshToken, "user@example.com")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "user@example.com",
		"type": "access",
		"exp":  issuedAt.Add(time.Hour).Unix(),
	})
	noneToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name      string
		validator *hmacJWTService
		tokenType TokenType
		token     string
		wantErr   error
	}{
		{
			name:      "expired beyond clock skew",
			validator: newTestJWTService(t, testSecret, fixedClock(issuedAt.Add(20*time.Minute))),
			tokenType: AccessToken,
			token:     access,
			wantErr:   ErrExpiredToken,
		},
		{
			name:      "expired within clock skew is accepted",
			validator: newTestJWTService(t, testSecret, fixedClock(issuedAt.Add(16*time.Minute))),
			tokenType: AccessToken,
			token:     access,
			wantErr:   nil,
		},
		{
			name:      "wrong secret",
			validator: newTestJWTService(t, "wrong-secret-that-is-long-enough-for-testing", fixedClock(issuedAt)),
			tokenType: AccessToken,
			token:     access,
			wantErr:   ErrInvalidToken,
		},
		{
			name:      "malformed",
			validator: issuer,
			tokenType: AccessToken,
			token:     "not.a.jwt",
			wantErr:   ErrInvalidToken,
		},
		{
			name:      "alg none",
			validator: issuer,
			tokenType: AccessToken,
			token:     noneToken,
			wantErr:   ErrInvalidToken,
		},
		{
			name:      "refresh token used as access",
			validator: issuer,
			tokenType: AccessToken,
			token:     refresh,
			wantErr:   ErrWrongTokenType,
		},
		{
			name:      "empty",
			validator: issuer,
			tokenType: SessionToken,
			token:     "",
			wantErr:   ErrMissingToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.validator.ValidateToken(context.Background(), tt.tokenType, tt.token)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateToken_RejectsEmptySubject(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, testSecret, time.Now)
	_, err := svc.GenerateToken(context.Background(), AccessToken, "")
	assert.Error(t, err)

	_, err = svc.GenerateToken(context.Background(), TokenType("bogus"), "user@example.com")
	assert.Error(t, err)
}
