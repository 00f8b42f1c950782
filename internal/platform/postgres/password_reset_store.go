package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// PostgresPasswordResetStore implements store.PasswordResetStore.
type PostgresPasswordResetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPasswordResetStore creates a new PostgresPasswordResetStore.
func NewPostgresPasswordResetStore(db store.DBTX, logger *slog.Logger) *PostgresPasswordResetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPasswordResetStore{
		db:     db,
		logger: logger.With(slog.String("component", "password_reset_store")),
	}
}

var _ store.PasswordResetStore = (*PostgresPasswordResetStore)(nil)

// WithTx implements store.PasswordResetStore.WithTx
func (s *PostgresPasswordResetStore) WithTx(tx *sql.Tx) store.PasswordResetStore {
	return &PostgresPasswordResetStore{db: tx, logger: s.logger}
}

// Create implements store.PasswordResetStore.Create
func (s *PostgresPasswordResetStore) Create(ctx context.Context, reset *domain.PasswordReset) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO password_resets (user_id, hashed_token, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, reset.UserID, reset.HashedToken, reset.ExpiresAt, reset.Used, reset.CreatedAt).Scan(&reset.ID)
	if err != nil {
		log.Error("failed to create password reset",
			slog.String("error", err.Error()),
			slog.Int64("user_id", reset.UserID))
		return MapError(err)
	}

	log.Info("password reset created",
		slog.Int64("reset_id", reset.ID),
		slog.Int64("user_id", reset.UserID),
		slog.Time("expires_at", reset.ExpiresAt))
	return nil
}

// GetUsableByHash implements store.PasswordResetStore.GetUsableByHash
// FOR UPDATE serializes concurrent redemptions of the same token.
func (s *PostgresPasswordResetStore) GetUsableByHash(
	ctx context.Context,
	hashedToken string,
	now time.Time,
) (*domain.PasswordReset, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var reset domain.PasswordReset
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, hashed_token, expires_at, used, created_at
		FROM password_resets
		WHERE hashed_token = $1 AND used = FALSE AND expires_at > $2
		FOR UPDATE
	`, hashedToken, now.UTC()).Scan(
		&reset.ID,
		&reset.UserID,
		&reset.HashedToken,
		&reset.ExpiresAt,
		&reset.Used,
		&reset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no usable password reset for token")
			return nil, store.ErrPasswordResetNotFound
		}
		log.Error("failed to get password reset", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	reset.ExpiresAt = reset.ExpiresAt.UTC()
	reset.CreatedAt = reset.CreatedAt.UTC()
	return &reset, nil
}

// MarkUsed implements store.PasswordResetStore.MarkUsed
func (s *PostgresPasswordResetStore) MarkUsed(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE password_resets SET used = TRUE WHERE id = $1 AND used = FALSE`, id)
	if err != nil {
		log.Error("failed to mark password reset used",
			slog.String("error", err.Error()),
			slog.Int64("reset_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPasswordResetNotFound); err != nil {
		return err
	}

	log.Info("password reset consumed", slog.Int64("reset_id", id))
	return nil
}
