package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// UserLookup resolves a token subject to a user.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users UserLookup) *AuthMiddleware {
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	if users == nil {
		panic("users cannot be nil")
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate accepts "Authorization: Bearer <access token>" or, when the
// header is absent, a session token in the session cookie. The resolved user
// is stored in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenType, token, ok := credentials(r)
		if !ok {
			unauthorized(w, r, shared.CodeUnauthorized, "Invalid authorization format", nil)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), tokenType, token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				unauthorized(w, r, shared.CodeUnauthorized, "Authentication required", err)
			case errors.Is(err, auth.ErrExpiredToken):
				unauthorized(w, r, shared.CodeTokenExpired, "Token expired", err)
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				unauthorized(w, r, shared.CodeUnauthorized, "Invalid token", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					shared.ErrorBody{Code: shared.CodeInternal, Message: "Authentication error"}, err)
			}
			return
		}

		user, err := m.users.GetUserByEmail(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				unauthorized(w, r, shared.CodeUnauthorized, "User no longer exists", err)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				shared.ErrorBody{Code: shared.CodeInternal, Message: "Authentication error"}, err)
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("user_id", user.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// credentials picks the token to validate. ok is false for a malformed
// Authorization header.
func credentials(r *http.Request) (auth.TokenType, string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", "", false
		}
		return auth.AccessToken, strings.TrimSpace(token), true
	}

	cookie, err := r.Cookie(auth.SessionCookieName)
	if err != nil {
		return auth.SessionToken, "", true
	}
	return auth.SessionToken, cookie.Value, true
}

func unauthorized(w http.ResponseWriter, r *http.Request, code, message string, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
		shared.ErrorBody{Code: code, Message: message}, err)
}

// CurrentUser extracts the authenticated user from the request context.
func CurrentUser(r *http.Request) (*domain.User, bool) {
	return shared.UserFromContext(r.Context())
}
