package types

import "time"

// SocialConnection holds an editor's granted credential for the
// external posting service. The OAuth handshake happens outside this
// system; only the resulting token is stored.
type SocialConnection struct {
	// UserID references the editor who granted the connection.
	UserID int `json:"user_id" db:"user_id"`

	// AccessToken is the bearer token used to post on the editor's behalf.
	// Never exposed in API responses.
	AccessToken string `json:"-" db:"access_token"`

	// RefreshToken allows the posting client to renew the access token.
	// Never exposed in API responses.
	RefreshToken string `json:"-" db:"refresh_token"`

	// TokenType is the OAuth token type, normally "Bearer".
	TokenType string `json:"token_type" db:"token_type"`

	// Expiry is when the access token lapses; zero means non-expiring.
	Expiry time.Time `json:"expiry" db:"expiry"`

	// CreatedAt is when the connection was first stored.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is when the connection was last refreshed.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ResetToken is a single-use password reset token. Only the SHA-256
// hash of the raw token is persisted.
type ResetToken struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	TokenHash string     `json:"-" db:"token_hash"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty" db:"used_at"`
}

// IsExpired reports whether the token has passed its expiry time.
func (t ResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsUsed reports whether the token has already been consumed.
func (t ResetToken) IsUsed() bool {
	return t.UsedAt != nil
}
