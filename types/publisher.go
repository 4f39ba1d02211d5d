package types

import "time"

// Publisher is a named organization grouping editors, journalists, and
// the content they produce. Affiliation lives on the User; a publisher
// never owns a member list directly.
type Publisher struct {
	// ID is the unique identifier of the publisher.
	ID int `json:"id" db:"id"`

	// Name is the unique display name of the publisher.
	Name string `json:"name" db:"name"`

	// Description is optional free-form text about the publisher.
	Description string `json:"description,omitempty" db:"description"`

	// CreatedAt is the timestamp when the publisher was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Subscriptions is a reader's current subscription sets.
type Subscriptions struct {
	// Publishers the reader is subscribed to.
	Publishers []Publisher `json:"subscribed_publishers"`

	// Journalists the reader follows.
	Journalists []User `json:"followed_journalists"`
}
