package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// CreateTaskParams holds the caller-supplied fields of a new task.
type CreateTaskParams struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Priority    domain.Priority
	IsCompleted bool
	TagID       *int64
}

// TaskService manages tasks on behalf of their owners.
type TaskService interface {
	CreateTask(ctx context.Context, userID int64, params CreateTaskParams) (*domain.Task, error)

	// GetTask returns ErrNotOwned when userID does not own the task.
	GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error)

	// ListTasks returns one page of filter.UserID's tasks.
	ListTasks(ctx context.Context, filter domain.TaskFilter) (domain.TaskPage, error)

	// UpdateTask applies a partial update. Returns ErrNotOwned for non-owners.
	UpdateTask(ctx context.Context, userID, taskID int64, update domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask returns ErrNotOwned for non-owners.
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	tx        store.Transactor
	logger    *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(taskStore store.TaskStore, tx store.Transactor, logger *slog.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		tx:        tx,
		logger:    logger.With("component", "task_service"),
	}
}

var _ TaskService = (*TaskServiceImpl)(nil)

// CreateTask implements TaskService.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID int64, params CreateTaskParams) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, params.Title, params.Priority)
	if err != nil {
		return nil, err
	}
	if params.Description != nil {
		desc := strings.TrimSpace(*params.Description)
		task.Description = &desc
	}
	if params.DueDate != nil {
		due := params.DueDate.UTC()
		task.DueDate = &due
	}
	task.IsCompleted = params.IsCompleted
	task.TagID = params.TagID
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		if !errors.Is(err, store.ErrUnknownTag) {
			log.Error("failed to create task", "error", err)
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask implements TaskService.
func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	return s.getOwned(ctx, s.taskStore, userID, taskID)
}

func (s *TaskServiceImpl) getOwned(ctx context.Context, tasks store.TaskStore, userID, taskID int64) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if !task.IsOwnedBy(userID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task access denied", "task_id", taskID)
		return nil, ErrNotOwned
	}
	return task, nil
}

// ListTasks implements TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filter domain.TaskFilter) (domain.TaskPage, error) {
	if err := filter.Normalize(); err != nil {
		return domain.TaskPage{}, err
	}

	items, total, err := s.taskStore.List(ctx, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks", "error", err)
		return domain.TaskPage{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return domain.NewTaskPage(items, total, filter), nil
}

// UpdateTask implements TaskService.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID int64,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	var updated *domain.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)

		task, err := s.getOwned(ctx, tasks, userID, taskID)
		if err != nil {
			return err
		}
		if update.IsEmpty() {
			updated = task
			return nil
		}
		if err := update.Apply(task, time.Now()); err != nil {
			return err
		}
		if err := tasks.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated", "task_id", taskID)
	return updated, nil
}

// DeleteTask implements TaskService.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID int64) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)

		if _, err := s.getOwned(ctx, tasks, userID, taskID); err != nil {
			return err
		}
		if err := tasks.Delete(ctx, taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}
