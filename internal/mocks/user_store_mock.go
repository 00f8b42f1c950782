package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// UserStore is a mock of store.UserStore for use with testify/mock.
// WithTx returns the mock itself so expectations carry into transactions.
type UserStore struct {
	mock.Mock
}

var _ store.UserStore = (*UserStore)(nil)

func (m *UserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserStore) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserStore) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	return m.Called(ctx, id, hashedPassword).Error(0)
}

func (m *UserStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserStore) WithTx(*sql.Tx) store.UserStore { return m }

// TaskStore is a mock of store.TaskStore for use with testify/mock.
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskStore) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	args := m.Called(ctx, filter)
	tasks, _ := args.Get(0).([]domain.Task)
	return tasks, args.Int(1), args.Error(2)
}

func (m *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *TaskStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TaskStore) WithTx(*sql.Tx) store.TaskStore { return m }

// TagStore is a mock of store.TagStore for use with testify/mock.
type TagStore struct {
	mock.Mock
}

var _ store.TagStore = (*TagStore)(nil)

func (m *TagStore) Create(ctx context.Context, tag *domain.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

func (m *TagStore) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	args := m.Called(ctx, id)
	if tag, ok := args.Get(0).(*domain.Tag); ok {
		return tag, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TagStore) List(ctx context.Context) ([]domain.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]domain.Tag)
	return tags, args.Error(1)
}

func (m *TagStore) Update(ctx context.Context, tag *domain.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

func (m *TagStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TagStore) WithTx(*sql.Tx) store.TagStore { return m }

// PasswordResetStore is a mock of store.PasswordResetStore for use with testify/mock.
type PasswordResetStore struct {
	mock.Mock
}

var _ store.PasswordResetStore = (*PasswordResetStore)(nil)

func (m *PasswordResetStore) Create(ctx context.Context, reset *domain.PasswordReset) error {
	return m.Called(ctx, reset).Error(0)
}

func (m *PasswordResetStore) GetUsableByHash(
	ctx context.Context,
	hashedToken string,
	now time.Time,
) (*domain.PasswordReset, error) {
	args := m.Called(ctx, hashedToken, now)
	if reset, ok := args.Get(0).(*domain.PasswordReset); ok {
		return reset, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PasswordResetStore) MarkUsed(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PasswordResetStore) WithTx(*sql.Tx) store.PasswordResetStore { return m }
