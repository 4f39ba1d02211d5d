package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Role is the closed set of account roles. A user's role is fixed at
// registration; changing roles means creating a new account.
type Role int

const (
	// RoleReader consumes content through publisher subscriptions and
	// journalist follows.
	RoleReader Role = iota

	// RoleJournalist authors articles and newsletters, independently or
	// for a publisher.
	RoleJournalist

	// RoleEditor approves or rejects content, optionally on behalf of a
	// single affiliated publisher.
	RoleEditor
)

// String returns the wire representation of the role used in API
// responses and in the database.
func (r Role) String() string {
	switch r {
	case RoleReader:
		return "reader"
	case RoleJournalist:
		return "journalist"
	case RoleEditor:
		return "editor"
	default:
		return "unknown"
	}
}

// ParseRole converts a wire representation back to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "reader":
		return RoleReader, nil
	case "journalist":
		return RoleJournalist, nil
	case "editor":
		return RoleEditor, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer so roles are stored as text.
func (r Role) Value() (driver.Value, error) {
	return r.String(), nil
}

// Scan implements sql.Scanner.
func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseRole(v)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	case []byte:
		parsed, err := ParseRole(string(v))
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
}

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's email address, used for notifications and
	// password resets.
	Email string `json:"email" db:"email"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Role is the user's fixed role (reader, journalist, editor).
	Role Role `json:"role" db:"role"`

	// AffiliatedPublisherID is set only for editors affiliated with a
	// publisher. Affiliated editors may only approve that publisher's
	// content.
	AffiliatedPublisherID *int `json:"affiliated_publisher_id,omitempty" db:"affiliated_publisher_id"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName returns the full name when present, else the username.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
