package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// TagService manages the shared tag vocabulary.
type TagService interface {
	CreateTag(ctx context.Context, name string) (*domain.Tag, error)
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	RenameTag(ctx context.Context, id int64, name string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

// TagServiceImpl implements TagService.
type TagServiceImpl struct {
	tagStore store.TagStore
	logger   *slog.Logger
}

// NewTagService creates a TagService.
func NewTagService(tagStore store.TagStore, logger *slog.Logger) *TagServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagServiceImpl{tagStore: tagStore, logger: logger.With("component", "tag_service")}
}

var _ TagService = (*TagServiceImpl)(nil)

// CreateTag validates name and stores a new tag.
func (s *TagServiceImpl) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	tag, err := domain.NewTag(name)
	if err != nil {
		return nil, err
	}
	if err := s.tagStore.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("tag created", "tag_id", tag.ID)
	return tag, nil
}

// GetTag retrieves a tag by ID.
func (s *TagServiceImpl) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tagStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tag: %w", err)
	}
	return tag, nil
}

// ListTags returns all tags ordered by name.
func (s *TagServiceImpl) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// RenameTag changes a tag's name and bumps UpdatedAt.
func (s *TagServiceImpl) RenameTag(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if err := domain.ValidateTagName(name); err != nil {
		return nil, err
	}

	tag, err := s.tagStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tag: %w", err)
	}
	tag.Name = name
	tag.UpdatedAt = time.Now().UTC()

	if err := s.tagStore.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	return tag, nil
}

// DeleteTag removes a tag and detaches it from any tasks.
func (s *TagServiceImpl) DeleteTag(ctx context.Context, id int64) error {
	if err := s.tagStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("tag deleted", "tag_id", id)
	return nil
}
