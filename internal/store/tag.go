package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

// TagStore defines the interface for tag data persistence.
type TagStore interface {
	// Create saves a new tag. Returns ErrTagNameExists on a name clash.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID returns ErrTagNotFound if the tag does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)

	// List returns all tags ordered by name.
	List(ctx context.Context) ([]domain.Tag, error)

	// Update renames a tag. Returns ErrTagNotFound or ErrTagNameExists.
	Update(ctx context.Context, tag *domain.Tag) error

	// Delete removes a tag and detaches it from any task.
	Delete(ctx context.Context, id int64) error

	WithTx(tx *sql.Tx) TagStore
}
