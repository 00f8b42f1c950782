package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Priority orders tasks by urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// MaxTaskTitleLength bounds Task.Title.
const MaxTaskTitleLength = 255

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts a priority in any case.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", NewValidationError("priority", "must be one of LOW, MEDIUM, HIGH")
	}
	return p, nil
}

// Task is a unit of work owned by a single user.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    Priority   `json:"priority"`
	IsCompleted bool       `json:"is_completed"`
	TagID       *int64     `json:"tag_id"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a Task owned by userID. An empty priority defaults to MEDIUM.
func NewTask(userID int64, title string, priority Priority) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	now := time.Now().UTC()
	task := &Task{
		Title:     strings.TrimSpace(title),
		Priority:  priority,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.UserID <= 0 {
		return NewValidationError("user_id", "must be set")
	}
	if err := ValidateTaskTitle(t.Title); err != nil {
		return err
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of LOW, MEDIUM, HIGH")
	}
	if t.TagID != nil && *t.TagID <= 0 {
		return NewValidationError("tag_id", "must be a positive id")
	}
	return nil
}

// IsOwnedBy reports whether userID owns the task.
func (t *Task) IsOwnedBy(userID int64) bool {
	return t.UserID == userID
}

// ValidateTaskTitle checks that title is non-empty and at most MaxTaskTitleLength.
func ValidateTaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return NewValidationError("title", "must be at most 255 characters")
	}
	return nil
}

// TaskUpdate is a partial update. Nil fields are left unchanged; the Clear
// flags set the corresponding nullable column to NULL.
type TaskUpdate struct {
	Title            *string
	Description      *string
	ClearDescription bool
	DueDate          *time.Time
	ClearDueDate     bool
	Priority         *Priority
	IsCompleted      *bool
	TagID            *int64
	ClearTag         bool
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && !u.ClearDescription &&
		u.DueDate == nil && !u.ClearDueDate && u.Priority == nil &&
		u.IsCompleted == nil && u.TagID == nil && !u.ClearTag
}

// Apply copies the set fields onto t, bumps UpdatedAt and revalidates.
func (u TaskUpdate) Apply(t *Task, now time.Time) error {
	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	switch {
	case u.ClearDescription:
		t.Description = nil
	case u.Description != nil:
		d := *u.Description
		t.Description = &d
	}
	switch {
	case u.ClearDueDate:
		t.DueDate = nil
	case u.DueDate != nil:
		d := u.DueDate.UTC()
		t.DueDate = &d
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.IsCompleted != nil {
		t.IsCompleted = *u.IsCompleted
	}
	switch {
	case u.ClearTag:
		t.TagID = nil
	case u.TagID != nil:
		id := *u.TagID
		t.TagID = &id
	}
	t.UpdatedAt = now.UTC()
	return t.Validate()
}

const (
	// DefaultPageLimit applies when a listing omits limit.
	DefaultPageLimit = 20

	// MaxPageLimit caps the page size.
	MaxPageLimit = 100
)

// TaskFilter narrows a listing of one user's tasks.
type TaskFilter struct {
	UserID      int64
	Query       string
	IsCompleted *bool
	Priority    *Priority
	TagID       *int64
	Limit       int
	Offset      int
}

// Normalize applies the default limit and rejects out-of-range paging.
func (f *TaskFilter) Normalize() error {
	if f.Limit == 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit < 1 || f.Limit > MaxPageLimit {
		return NewValidationError("limit", "must be between 1 and 100")
	}
	if f.Offset < 0 {
		return NewValidationError("offset", "must not be negative")
	}
	f.Query = strings.TrimSpace(f.Query)
	return nil
}

// TaskPage is one page of a filtered task listing.
type TaskPage struct {
	Items   []Task `json:"items"`
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasNext bool   `json:"has_next"`
}

// NewTaskPage assembles a page and computes HasNext.
func NewTaskPage(items []Task, total int, f TaskFilter) TaskPage {
	if items == nil {
		items = []Task{}
	}
	return TaskPage{
		Items:   items,
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
		HasNext: f.Offset+len(items) < total,
	}
}
