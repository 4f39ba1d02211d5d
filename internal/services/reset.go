package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenTTL bounds how long a reset link stays valid.
const resetTokenTTL = 15 * time.Minute

// ResetTokenRepository defines persistence operations for password
// reset tokens. Only the token's hash is ever stored.
type ResetTokenRepository interface {
	Create(ctx context.Context, token types.ResetToken) (types.ResetToken, error)
	Consume(ctx context.Context, tokenHash string, now time.Time) (types.ResetToken, error)
}

// EmailSender delivers plain-text email to a set of recipients.
type EmailSender interface {
	Send(ctx context.Context, recipients []string, subject, msg string) error
}

// ResetService implements the forgot-password flow with single-use,
// short-lived emailed tokens.
type ResetService struct {
	users    UserRepository
	tokens   ResetTokenRepository
	notifier EmailSender
	logger   *slog.Logger
	now      func() time.Time
}

func NewResetService(users UserRepository, tokens ResetTokenRepository, notifier EmailSender, logger *slog.Logger) *ResetService {
	return &ResetService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Request issues a reset token and emails it to the account holder.
// It reports success whether or not the address belongs to an
// account, so the endpoint cannot be used to probe for registered
// emails.
func (s *ResetService) Request(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	now := s.now()
	if _, err := s.tokens.Create(ctx, types.ResetToken{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(resetTokenTTL),
	}); err != nil {
		return err
	}

	msg := fmt.Sprintf(
		"Hello %s,\n\nUse the token below to reset your password. It expires in %d minutes and can be used once.\n\n%s\n",
		user.DisplayName(), int(resetTokenTTL.Minutes()), token)
	if err := s.notifier.Send(ctx, []string{user.Email}, "Password reset", msg); err != nil {
		s.logger.Error("could not send reset email", "user_id", user.ID, "error", err)
	}

	return nil
}

// Reset consumes the token and replaces the account's password. An
// unknown, expired or already-used token is invalid input.
func (s *ResetService) Reset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	consumed, err := s.tokens.Consume(ctx, hashToken(token), s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired reset token", ErrValidation)
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, consumed.UserID, string(hashed))
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
