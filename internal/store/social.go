package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/newswire/apiserver/types"
)

// ConnectionRepository stores editors' social-posting credentials.
type ConnectionRepository struct {
	db *sql.DB
}

func NewConnectionRepository(db *sql.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) Get(ctx context.Context, userID int) (types.SocialConnection, error) {
	const query = `
		SELECT user_id, access_token, refresh_token, token_type, expiry, created_at, updated_at
		FROM social_connections
		WHERE user_id = $1`
	var conn types.SocialConnection
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&conn.UserID,
		&conn.AccessToken,
		&conn.RefreshToken,
		&conn.TokenType,
		&conn.Expiry,
		&conn.CreatedAt,
		&conn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SocialConnection{}, ErrNotFound
		}
		return types.SocialConnection{}, err
	}
	return conn, nil
}

// Upsert stores or refreshes a user's connection.
func (r *ConnectionRepository) Upsert(ctx context.Context, conn types.SocialConnection) (types.SocialConnection, error) {
	now := time.Now()
	conn.UpdatedAt = now

	const query = `
		INSERT INTO social_connections (user_id, access_token, refresh_token, token_type, expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		conn.UserID,
		conn.AccessToken,
		conn.RefreshToken,
		conn.TokenType,
		conn.Expiry,
		now,
	).Scan(&conn.CreatedAt); err != nil {
		return types.SocialConnection{}, err
	}
	return conn, nil
}

func (r *ConnectionRepository) Delete(ctx context.Context, userID int) error {
	const query = `DELETE FROM social_connections WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
