package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

// PasswordResetStore persists password reset tokens by digest.
type PasswordResetStore interface {
	// Create saves a new reset and sets its ID.
	Create(ctx context.Context, reset *domain.PasswordReset) error

	// GetUsableByHash returns the unused reset with the given digest that
	// has not expired at now, locking the row for the current transaction.
	// Returns ErrPasswordResetNotFound otherwise.
	GetUsableByHash(ctx context.Context, hashedToken string, now time.Time) (*domain.PasswordReset, error)

	// MarkUsed flags the reset as consumed. It fails with
	// ErrPasswordResetNotFound if the reset was already used.
	MarkUsed(ctx context.Context, id int64) error

	WithTx(tx *sql.Tx) PasswordResetStore
}
