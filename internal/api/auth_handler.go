package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// AuthHandlerConfig holds the non-service settings of AuthHandler.
type AuthHandlerConfig struct {
	Cookies CookieConfig

	// FrontendURL is the reset link base when the request's Origin is not
	// one of AllowedOrigins.
	FrontendURL    string
	AllowedOrigins []string
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users      service.UserService
	resets     service.PasswordResetService
	jwtService auth.JWTService
	cookies    CookieConfig

	frontendURL    string
	allowedOrigins map[string]bool
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	resets service.PasswordResetService,
	jwtService auth.JWTService,
	cfg AuthHandlerConfig,
) *AuthHandler {
	if users == nil {
		panic("users cannot be nil")
	}
	if resets == nil {
		panic("resets cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}

	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[strings.TrimRight(o, "/")] = true
	}
	return &AuthHandler{
		users:          users,
		resets:         resets,
		jwtService:     jwtService,
		cookies:        cfg.Cookies,
		frontendURL:    cfg.FrontendURL,
		allowedOrigins: origins,
	}
}

// Register handles POST /api/users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newUserResponse(user))
}

// Login handles POST /api/users/login. The access token is returned in the
// body; refresh, CSRF and session tokens are set as cookies.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			HandleAPIError(w, r, err, "")
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	h.issueTokens(w, r, user)
}

// Refresh handles POST /api/users/refresh. It needs the refresh cookie and a
// CSRF pair, which the router enforces, and rotates all three tokens.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	cookie, err := r.Cookie(auth.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		HandleAPIError(w, r, auth.ErrMissingToken, "Refresh token missing")
		return
	}

	claims, err := h.jwtService.ValidateToken(r.Context(), auth.RefreshToken, cookie.Value)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			HandleAPIError(w, r, err, "Refresh token expired")
			return
		}
		HandleAPIError(w, r, err, "Invalid refresh token")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), claims.Subject)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("refreshing tokens", "user_id", user.ID)
	h.issueTokens(w, r, user)
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, r *http.Request, user *domain.User) {
	set, err := h.jwtService.GenerateTokenSet(r.Context(), user.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication tokens")
		return
	}

	csrfToken, err := auth.GenerateCSRFToken()
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication tokens")
		return
	}

	h.cookies.setAuthCookies(w, set, csrfToken,
		h.jwtService.Lifetime(auth.RefreshToken),
		h.jwtService.Lifetime(auth.SessionToken))

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: set.AccessToken,
		TokenType:   "bearer",
	})
}

// Verify handles POST /api/users/verify and returns the current user.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// Logout handles POST /api/users/logout by expiring every auth cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clearAuthCookies(w)
	shared.RespondNoContent(w)
}

// ForgotPassword handles POST /api/users/forgot-password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.resets.RequestReset(r.Context(), req.Email, h.linkBase(r)); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondNoContent(w)
}

// linkBase prefers the request Origin when it is an allowed origin, so an
// attacker-supplied Origin cannot redirect the emailed token.
func (h *AuthHandler) linkBase(r *http.Request) string {
	origin := strings.TrimRight(r.Header.Get("Origin"), "/")
	if origin != "" && h.allowedOrigins[origin] {
		return origin
	}
	return h.frontendURL
}

// ResetPassword handles POST /api/users/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.resets.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondNoContent(w)
}
