package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/newswire/apiserver/types"
)

// ResetTokenRepository persists hashed single-use password reset tokens.
type ResetTokenRepository struct {
	db *sql.DB
}

func NewResetTokenRepository(db *sql.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Create stores a new token, replacing any unused tokens for the user.
func (r *ResetTokenRepository) Create(ctx context.Context, token types.ResetToken) (types.ResetToken, error) {
	token.CreatedAt = time.Now()

	const cleanupQuery = `
		DELETE FROM reset_tokens
		WHERE user_id = $1 AND used_at IS NULL`
	if _, err := r.db.ExecContext(ctx, cleanupQuery, token.UserID); err != nil {
		return types.ResetToken{}, err
	}

	const insertQuery = `
		INSERT INTO reset_tokens (user_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		insertQuery,
		token.UserID,
		token.TokenHash,
		token.CreatedAt,
		token.ExpiresAt,
	).Scan(&token.ID); err != nil {
		return types.ResetToken{}, err
	}
	return token, nil
}

// Consume marks the unused, unexpired token with the given hash as used
// and returns it. An unknown, expired, or already-used hash yields
// ErrNotFound.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (types.ResetToken, error) {
	const query = `
		UPDATE reset_tokens
		SET used_at = $1
		WHERE token_hash = $2 AND used_at IS NULL AND expires_at > $1
		RETURNING id, user_id, token_hash, created_at, expires_at, used_at`
	var token types.ResetToken
	err := r.db.QueryRowContext(ctx, query, now, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.UsedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ResetToken{}, ErrNotFound
		}
		return types.ResetToken{}, err
	}
	return token, nil
}
