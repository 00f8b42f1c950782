package mocks

import (
	"strings"

	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

const fakeHashPrefix = "hashed:"

// MockPasswordHasher implements auth.PasswordHasher without bcrypt's cost.
// Hash returns "hashed:<password>".
type MockPasswordHasher struct {
	// HashErr is returned by Hash when set
	HashErr error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return fakeHashPrefix + password, nil
}

// Compare implements auth.PasswordHasher.
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if !strings.HasPrefix(hashedPassword, fakeHashPrefix) || hashedPassword[len(fakeHashPrefix):] != password {
		return auth.ErrPasswordMismatch
	}
	return nil
}
