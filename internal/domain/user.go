package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxEmailLength is the column width of users.email.
	MaxEmailLength = 100

	// MinPasswordLength is the shortest accepted plaintext password.
	MinPasswordLength = 8

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// User represents a registered account.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a User with the given email and an already hashed password.
// The email is normalized to lower case.
func NewUser(email, hashedPassword string) (*User, error) {
	user := &User{
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "hash cannot be empty")
	}
	return nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare address of at most MaxEmailLength.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "cannot be empty")
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return NewValidationError("email", "must be at most 100 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("email", "must be a valid email address")
	}
	return nil
}

// ValidatePassword checks plaintext password length.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return NewValidationError("password", "must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}
