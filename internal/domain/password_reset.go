package domain

import "time"

// PasswordReset records a single-use reset token. Only the SHA-256 digest of
// the raw token is stored.
type PasswordReset struct {
	ID          int64
	UserID      int64
	HashedToken string
	ExpiresAt   time.Time
	Used        bool
	CreatedAt   time.Time
}

// NewPasswordReset creates an unused reset for userID expiring ttl after now.
func NewPasswordReset(userID int64, hashedToken string, now time.Time, ttl time.Duration) *PasswordReset {
	now = now.UTC()
	return &PasswordReset{
		UserID:      userID,
		HashedToken: hashedToken,
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
}

// IsUsable reports whether the reset is unused and not yet expired at now.
func (r *PasswordReset) IsUsable(now time.Time) bool {
	return !r.Used && now.Before(r.ExpiresAt)
}
