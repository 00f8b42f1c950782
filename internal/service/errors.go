// Package service provides application-level services for managing users, tasks, tags and password resets.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers use errors.Is to check for them; the API layer maps them to status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// Callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidResetToken indicates a reset token that is unknown, used or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)
