package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// CookieConfig controls attributes shared by every auth cookie.
type CookieConfig struct {
	// Secure marks cookies HTTPS-only
	Secure bool
}

// setAuthCookies writes the refresh, CSRF and session cookies.
func (c CookieConfig) setAuthCookies(
	w http.ResponseWriter,
	set *auth.TokenSet,
	csrfToken string,
	refreshTTL, sessionTTL time.Duration,
) {
	http.SetCookie(w, c.cookie(auth.RefreshCookieName, set.RefreshToken, auth.RefreshCookiePath, true, refreshTTL))
	http.SetCookie(w, c.cookie(auth.CSRFCookieName, csrfToken, "/", false, 0))
	http.SetCookie(w, c.cookie(auth.SessionCookieName, set.SessionToken, "/", true, sessionTTL))
}

// clearAuthCookies expires all three cookies with matching attributes.
func (c CookieConfig) clearAuthCookies(w http.ResponseWriter) {
	for _, ck := range []*http.Cookie{
		c.cookie(auth.RefreshCookieName, "", auth.RefreshCookiePath, true, 0),
		c.cookie(auth.CSRFCookieName, "", "/", false, 0),
		c.cookie(auth.SessionCookieName, "", "/", true, 0),
	} {
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		http.SetCookie(w, ck)
	}
}

// cookie builds a SameSite=Lax cookie. A zero ttl yields a browser-session cookie.
func (c CookieConfig) cookie(name, value, path string, httpOnly bool, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: httpOnly,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		ck.MaxAge = int(ttl.Seconds())
	}
	return ck
}
