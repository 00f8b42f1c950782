package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "test_table",
		ColumnName:     "test_column",
		ConstraintName: constraint,
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"duplicate email", newPgError(pgerrcode.UniqueViolation, "users_email_key"), store.ErrEmailExists},
		{"duplicate tag name", newPgError(pgerrcode.UniqueViolation, "tags_name_key"), store.ErrTagNameExists},
		{"other unique", newPgError(pgerrcode.UniqueViolation, "other_key"), store.ErrDuplicate},
		{"unknown tag", newPgError(pgerrcode.ForeignKeyViolation, "tasks_tag_id_fkey"), store.ErrUnknownTag},
		{"missing owner", newPgError(pgerrcode.ForeignKeyViolation, "tasks_user_id_fkey"), store.ErrUserNotFound},
		{"other fk", newPgError(pgerrcode.ForeignKeyViolation, "x_fkey"), store.ErrInvalidEntity},
		{"check", newPgError(pgerrcode.CheckViolation, "tasks_priority_check"), store.ErrInvalidEntity},
		{"not null", newPgError(pgerrcode.NotNullViolation, ""), store.ErrInvalidEntity},
		{"too long", newPgError(pgerrcode.StringDataRightTruncationDataException, ""), store.ErrInvalidEntity},
		{"wrapped pg error", fmt.Errorf("exec: %w", newPgError(pgerrcode.UniqueViolation, "users_email_key")), store.ErrEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.want)
		})
	}

	assert.NoError(t, postgres.MapError(nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, postgres.MapError(plain))
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError(pgerrcode.UniqueViolation, "")))
	assert.False(t, postgres.IsUniqueViolation(newPgError(pgerrcode.ForeignKeyViolation, "")))
	assert.True(t, postgres.IsForeignKeyViolation(newPgError(pgerrcode.ForeignKeyViolation, "")))
	assert.False(t, postgres.IsForeignKeyViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrTaskNotFound))
	assert.ErrorIs(t, postgres.CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrTaskNotFound), store.ErrTaskNotFound)
	assert.ErrorIs(t, postgres.CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)
	assert.Error(t, postgres.CheckRowsAffected(sqlmock.NewErrorResult(errors.New("driver")), nil))
	assert.Error(t, postgres.CheckRowsAffected(nil, nil))
}
