package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// PostgresTagStore implements store.TagStore.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgresTagStore.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

var _ store.TagStore = (*PostgresTagStore)(nil)

func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{db: tx, logger: s.logger}
}

func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateTagName(tag.Name); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, tag.Name, tag.CreatedAt, tag.UpdatedAt).Scan(&tag.ID)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrTagNameExists) {
			return store.ErrTagNameExists
		}
		log.Error("failed to create tag", slog.String("error", err.Error()))
		return mapped
	}

	log.Info("tag created", slog.Int64("tag_id", tag.ID))
	return nil
}

func (s *PostgresTagStore) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := scanTag(s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM tags WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get tag",
			slog.String("error", err.Error()),
			slog.Int64("tag_id", id))
		return nil, MapError(err)
	}
	return tag, nil
}

func (s *PostgresTagStore) List(ctx context.Context) ([]domain.Tag, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM tags ORDER BY name, id`)
	if err != nil {
		log.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tags = append(tags, *tag)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tags, nil
}

func (s *PostgresTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateTagName(tag.Name); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE tags SET name = $1, updated_at = $2 WHERE id = $3`,
		tag.Name, tag.UpdatedAt, tag.ID)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrTagNameExists) {
			return store.ErrTagNameExists
		}
		log.Error("failed to update tag",
			slog.String("error", err.Error()),
			slog.Int64("tag_id", tag.ID))
		return mapped
	}
	if err := CheckRowsAffected(result, store.ErrTagNotFound); err != nil {
		return err
	}

	log.Info("tag updated", slog.Int64("tag_id", tag.ID))
	return nil
}

func (s *PostgresTagStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete tag",
			slog.String("error", err.Error()),
			slog.Int64("tag_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTagNotFound); err != nil {
		return err
	}

	log.Info("tag deleted", slog.Int64("tag_id", id))
	return nil
}

func scanTag(row rowScanner) (*domain.Tag, error) {
	var tag domain.Tag
	if err := row.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
		return nil, err
	}
	tag.CreatedAt = tag.CreatedAt.UTC()
	tag.UpdatedAt = tag.UpdatedAt.UTC()
	return &tag, nil
}
