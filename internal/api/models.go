package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// Optional distinguishes an absent JSON field from an explicit null.
type Optional[T any] struct {
	// Set is true when the field appeared in the payload
	Set bool
	// Null is true when the field was sent as null
	Null  bool
	Value T
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// dueDateLayouts are tried in order. The zone-less forms are what browser
// datetime-local inputs produce and are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// DueDate is a task due date that also accepts timestamps without a zone.
type DueDate struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.NewValidationError("due_date", "must be a date-time string")
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return domain.NewValidationError("due_date", "must be an RFC 3339 date-time or YYYY-MM-DDTHH:MM")
}

// ptr returns nil for a nil DueDate.
func (d *DueDate) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest defines the payload for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the payload for redeeming a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email}
}

// TokenResponse is returned by login and refresh. The refresh and session
// tokens travel only in cookies.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TagRequest is the payload for creating or renaming a tag.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string   `json:"title"        validate:"required,max=255"`
	Description *string  `json:"description"`
	DueDate     *DueDate `json:"due_date"`
	Priority    string   `json:"priority"`
	IsCompleted bool     `json:"is_completed"`
	TagID       *int64   `json:"tag_id"       validate:"omitempty,gt=0"`

	// UserID is accepted for client compatibility and ignored; the owner is
	// always the caller.
	UserID *int64 `json:"user_id"`
}

// Params converts the request into service parameters.
func (r CreateTaskRequest) Params() (service.CreateTaskParams, error) {
	params := service.CreateTaskParams{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate.ptr(),
		IsCompleted: r.IsCompleted,
		TagID:       r.TagID,
	}
	if strings.TrimSpace(r.Priority) != "" {
		p, err := domain.ParsePriority(r.Priority)
		if err != nil {
			return service.CreateTaskParams{}, err
		}
		params.Priority = p
	}
	return params, nil
}

// UpdateTaskRequest defines the payload for a partial task update. Absent
// fields are unchanged; null clears description, due_date and tag_id.
type UpdateTaskRequest struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	DueDate     Optional[DueDate]   `json:"due_date"`
	Priority    Optional[string]    `json:"priority"`
	IsCompleted Optional[bool]      `json:"is_completed"`
	TagID       Optional[int64]     `json:"tag_id"`
}

// Update converts the request into a domain.TaskUpdate.
func (r UpdateTaskRequest) Update() (domain.TaskUpdate, error) {
	var u domain.TaskUpdate

	if r.Title.Set {
		if r.Title.Null {
			return u, domain.NewValidationError("title", "cannot be null")
		}
		u.Title = &r.Title.Value
	}

	if r.Description.Set {
		if r.Description.Null {
			u.ClearDescription = true
		} else {
			u.Description = &r.Description.Value
		}
	}

	if r.DueDate.Set {
		if r.DueDate.Null {
			u.ClearDueDate = true
		} else {
			due := r.DueDate.Value.Time
			u.DueDate = &due
		}
	}

	if r.Priority.Set {
		if r.Priority.Null {
			return u, domain.NewValidationError("priority", "cannot be null")
		}
		p, err := domain.ParsePriority(r.Priority.Value)
		if err != nil {
			return u, err
		}
		u.Priority = &p
	}

	if r.IsCompleted.Set {
		if r.IsCompleted.Null {
			return u, domain.NewValidationError("is_completed", "cannot be null")
		}
		u.IsCompleted = &r.IsCompleted.Value
	}

	if r.TagID.Set {
		if r.TagID.Null {
			u.ClearTag = true
		} else {
			if r.TagID.Value <= 0 {
				return u, domain.NewValidationError("tag_id", "must be a positive id")
			}
			u.TagID = &r.TagID.Value
		}
	}

	return u, nil
}

// HelloResponse is served at the root path.
type HelloResponse struct {
	Hello string `json:"Hello"`
}
