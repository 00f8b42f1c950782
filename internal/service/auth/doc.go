// Package auth provides the credential primitives used by the API: bcrypt
// password hashing, HS256 tokens for access, refresh and session use, the
// double-submit CSRF check, and single-use password reset tokens.
package auth
