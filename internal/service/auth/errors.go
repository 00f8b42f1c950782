package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWrongTokenType indicates a validly signed token presented for the wrong purpose,
	// e.g. a refresh token sent as a bearer token.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrCSRFMissing indicates the CSRF cookie or header was absent on an unsafe request.
	ErrCSRFMissing = errors.New("CSRF token missing")

	// ErrCSRFInvalid indicates the CSRF cookie and header did not match.
	ErrCSRFInvalid = errors.New("CSRF token invalid")
)
