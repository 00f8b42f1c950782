package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTag(t *testing.T) {
	tag, err := NewTag(" work ")
	require.NoError(t, err)
	assert.Equal(t, "work", tag.Name)
	assert.Equal(t, tag.CreatedAt, tag.UpdatedAt)

	_, err = NewTag("")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewTag(strings.Repeat("n", 51))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPasswordResetIsUsable(t *testing.T) {
	now := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	reset := NewPasswordReset(1, "digest", now, time.Hour)

	assert.Equal(t, now.Add(time.Hour), reset.ExpiresAt)
	assert.True(t, reset.IsUsable(now.Add(59*time.Minute)))
	assert.False(t, reset.IsUsable(now.Add(time.Hour)))

	reset.Used = true
	assert.False(t, reset.IsUsable(now))
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("title", "cannot be empty")
	assert.Equal(t, "validation failed: title cannot be empty", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
}
