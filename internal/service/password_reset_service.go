package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/mail"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// PasswordResetService issues and redeems password reset tokens.
type PasswordResetService interface {
	// RequestReset emails a reset link based at linkBase to the user with email.
	// Returns store.ErrUserNotFound for an unknown email.
	RequestReset(ctx context.Context, email, linkBase string) error

	// ResetPassword redeems rawToken and sets newPassword.
	// Returns ErrInvalidResetToken when the token is unknown, used or expired.
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}

// PasswordResetServiceImpl implements PasswordResetService.
type PasswordResetServiceImpl struct {
	userStore  store.UserStore
	resetStore store.PasswordResetStore
	tx         store.Transactor
	hasher     auth.PasswordHasher
	mailer     mail.Mailer
	ttl        time.Duration
	timeFunc   func() time.Time
	logger     *slog.Logger
}

// NewPasswordResetService creates a PasswordResetService whose tokens expire after ttl.
func NewPasswordResetService(
	userStore store.UserStore,
	resetStore store.PasswordResetStore,
	tx store.Transactor,
	hasher auth.PasswordHasher,
	mailer mail.Mailer,
	ttl time.Duration,
	logger *slog.Logger,
) *PasswordResetServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &PasswordResetServiceImpl{
		userStore:  userStore,
		resetStore: resetStore,
		tx:         tx,
		hasher:     hasher,
		mailer:     mailer,
		ttl:        ttl,
		timeFunc:   time.Now,
		logger:     logger.With("component", "password_reset_service"),
	}
}

var _ PasswordResetService = (*PasswordResetServiceImpl)(nil)

// WithClock replaces the time source; used by tests.
func (s *PasswordResetServiceImpl) WithClock(now func() time.Time) *PasswordResetServiceImpl {
	s.timeFunc = now
	return s
}

// RequestReset implements PasswordResetService.
func (s *PasswordResetServiceImpl) RequestReset(ctx context.Context, email, linkBase string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("password reset requested for unknown email")
		} else {
			log.Error("failed to look up user for password reset", "error", err)
		}
		return fmt.Errorf("failed to request password reset: %w", err)
	}

	raw, hashed, err := auth.GenerateResetToken()
	if err != nil {
		log.Error("failed to generate reset token", "error", err)
		return fmt.Errorf("failed to request password reset: %w", err)
	}

	link, err := BuildResetLink(linkBase, raw)
	if err != nil {
		log.Error("failed to build reset link", "error", err)
		return fmt.Errorf("failed to request password reset: %w", err)
	}

	msg := mail.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf(
			"A password reset was requested for your account.\n\n"+
				"Open the link below within %d minutes to choose a new password:\n\n%s\n\n"+
				"If you did not request this, you can ignore this email.\n",
			int(s.ttl.Minutes()), link),
	}

	// The record is committed only once the mail has been handed off.
	reset := domain.NewPasswordReset(user.ID, hashed, s.timeFunc(), s.ttl)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.resetStore.WithTx(tx).Create(ctx, reset); err != nil {
			log.Error("failed to persist password reset", "error", err, "user_id", user.ID)
			return fmt.Errorf("failed to request password reset: %w", err)
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			log.Error("failed to send password reset email", "error", err, "user_id", user.ID)
			return fmt.Errorf("failed to send password reset email: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("password reset issued", "user_id", user.ID, "reset_id", reset.ID)
	return nil
}

// ResetPassword implements PasswordResetService. The lookup, password update
// and consumption of the token share one transaction.
func (s *PasswordResetServiceImpl) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(rawToken) == "" {
		return ErrInvalidResetToken
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.hasher.Hash(newPassword)
	if err != nil {
		log.Error("failed to hash new password", "error", err)
		return fmt.Errorf("failed to reset password: %w", err)
	}

	digest := auth.HashResetToken(rawToken)
	var userID int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		resets := s.resetStore.WithTx(tx)

		reset, err := resets.GetUsableByHash(ctx, digest, s.timeFunc())
		if err != nil {
			if errors.Is(err, store.ErrPasswordResetNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		userID = reset.UserID

		if err := s.userStore.WithTx(tx).UpdatePassword(ctx, reset.UserID, hashedPassword); err != nil {
			return err
		}

		if err := resets.MarkUsed(ctx, reset.ID); err != nil {
			if errors.Is(err, store.ErrPasswordResetNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			log.Info("rejected invalid or expired reset token")
			return ErrInvalidResetToken
		}
		log.Error("failed to reset password", "error", err)
		return fmt.Errorf("failed to reset password: %w", err)
	}

	log.Info("password reset completed", "user_id", userID)
	return nil
}

// BuildResetLink returns {base}/reset-password?token={raw}.
func BuildResetLink(base, raw string) (string, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid reset link base %q", base)
	}
	u.Path += "/reset-password"
	u.RawQuery = url.Values{"token": {raw}}.Encode()
	return u.String(), nil
}
