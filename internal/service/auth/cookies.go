package auth

// Names of the cookies issued on login and refresh.
const (
	RefreshCookieName = "refresh_token"
	SessionCookieName = "session"

	// RefreshCookiePath scopes the refresh cookie to the refresh endpoint.
	RefreshCookiePath = "/api/users/refresh"
)
