package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Ownership is enforced by the service layer, not here.
type TaskStore interface {
	// Create saves a new task and sets its ID.
	// Returns ErrUnknownTag if TagID references a missing tag.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns one page of tasks matching filter, plus the total match count.
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error)

	// Update writes every mutable column of task.
	// Returns ErrTaskNotFound or ErrUnknownTag.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a TaskStore that runs its queries in tx.
	WithTx(tx *sql.Tx) TaskStore
}
