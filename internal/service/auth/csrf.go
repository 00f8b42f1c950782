package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
)

const (
	// CSRFCookieName is readable by browser JavaScript, which echoes it in CSRFHeaderName.
	CSRFCookieName = "csrf_token"

	// CSRFHeaderName carries the echoed token on unsafe requests.
	CSRFHeaderName = "X-CSRF-Token"

	csrfTokenBytes = 32
)

// GenerateCSRFToken returns 32 random bytes, URL-safe base64 encoded.
func GenerateCSRFToken() (string, error) {
	return randomToken(csrfTokenBytes)
}

// IsSafeMethod reports whether method is exempt from CSRF checks.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CheckCSRF applies the double-submit check. Safe methods always pass.
// A missing cookie or header yields ErrCSRFMissing; a mismatch yields ErrCSRFInvalid.
func CheckCSRF(method, cookieToken, headerToken string) error {
	if IsSafeMethod(method) {
		return nil
	}
	if cookieToken == "" || headerToken == "" {
		return ErrCSRFMissing
	}
	if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) != 1 {
		return ErrCSRFInvalid
	}
	return nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
