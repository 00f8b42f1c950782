package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTagNameLength is the column width of tags.name.
const MaxTagNameLength = 50

// Tag is a shared label; a task carries at most one.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTag creates a Tag with a trimmed, validated name.
func NewTag(name string) (*Tag, error) {
	now := time.Now().UTC()
	tag := &Tag{
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ValidateTagName(tag.Name); err != nil {
		return nil, err
	}
	return tag, nil
}

// ValidateTagName checks that name is non-empty and at most MaxTagNameLength.
func ValidateTagName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxTagNameLength {
		return NewValidationError("name", "must be at most 50 characters")
	}
	return nil
}
