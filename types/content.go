package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ApprovalStatus is the lifecycle state of a content item. Items are
// created pending and move exactly once to approved or rejected; both
// outcomes are terminal.
type ApprovalStatus int

const (
	// StatusPending is the initial state of newly created content.
	StatusPending ApprovalStatus = iota

	// StatusApproved marks content released by an editor. ApprovedByID
	// is set if and only if the item is approved.
	StatusApproved

	// StatusRejected marks content turned down by an editor. The item
	// is kept for the author's and editors' visibility but is never
	// shown to readers.
	StatusRejected
)

// String returns the wire representation used in API responses and in
// the database.
func (s ApprovalStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ParseApprovalStatus converts a wire representation back to a status.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return 0, fmt.Errorf("unknown approval status %q", s)
	}
}

func (s ApprovalStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ApprovalStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseApprovalStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer so statuses are stored as text.
func (s ApprovalStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *ApprovalStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseApprovalStatus(v)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	case []byte:
		parsed, err := ParseApprovalStatus(string(v))
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ApprovalStatus", src)
	}
}

// Article is a news piece written by a journalist, with an optional
// publisher. Articles without a publisher count as independent.
type Article struct {
	// ID is the unique identifier of the article.
	ID int `json:"id" db:"id"`

	// Title is the headline of the article.
	Title string `json:"title" db:"title"`

	// Body is the full article text.
	Body string `json:"body" db:"body"`

	// AuthorID references the journalist who wrote the article.
	AuthorID int `json:"author_id" db:"author_id"`

	// PublisherID references the publisher the article was written for,
	// or nil for independent work.
	PublisherID *int `json:"publisher_id,omitempty" db:"publisher_id"`

	// Status is the approval lifecycle state.
	Status ApprovalStatus `json:"status" db:"status"`

	// ApprovedByID references the editor who approved the article.
	// Set if and only if Status is approved.
	ApprovedByID *int `json:"approved_by,omitempty" db:"approved_by"`

	// CoverImageKey is the object-storage key of the optional cover
	// image, empty when none has been uploaded.
	CoverImageKey string `json:"cover_image_key,omitempty" db:"cover_image_key"`

	// CreatedAt is the timestamp at which the article was created.
	// It is immutable after creation.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsApproved reports whether the article has been released by an editor.
func (a Article) IsApproved() bool {
	return a.Status == StatusApproved
}

// Newsletter is the periodical variant of a content item. It shares the
// article lifecycle and feed semantics under subject/content naming.
type Newsletter struct {
	// ID is the unique identifier of the newsletter.
	ID int `json:"id" db:"id"`

	// Subject is the newsletter's subject line.
	Subject string `json:"subject" db:"subject"`

	// Content is the full newsletter text.
	Content string `json:"content" db:"content"`

	// AuthorID references the journalist who wrote the newsletter.
	AuthorID int `json:"author_id" db:"author_id"`

	// PublisherID references the publisher, or nil for independent work.
	PublisherID *int `json:"publisher_id,omitempty" db:"publisher_id"`

	// Status is the approval lifecycle state.
	Status ApprovalStatus `json:"status" db:"status"`

	// ApprovedByID references the approving editor, set iff approved.
	ApprovedByID *int `json:"approved_by,omitempty" db:"approved_by"`

	// CreatedAt is the immutable creation timestamp.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsApproved reports whether the newsletter has been released.
func (n Newsletter) IsApproved() bool {
	return n.Status == StatusApproved
}

// FeedFilter selects the content items visible to a requester. The
// zero value matches everything, which is the staff (journalist or
// editor) view.
type FeedFilter struct {
	// ApprovedOnly restricts results to approved items.
	ApprovedOnly bool

	// Scoped restricts results to items whose publisher is in
	// PublisherIDs or whose author is in JournalistIDs. With Scoped set
	// and both sets empty, nothing matches.
	Scoped        bool
	PublisherIDs  []int
	JournalistIDs []int
}

// StaffFeedFilter is the unrestricted view editors and journalists get.
func StaffFeedFilter() FeedFilter {
	return FeedFilter{}
}

// ReaderFeedFilter is the subscription-scoped, approved-only view.
func ReaderFeedFilter(publisherIDs, journalistIDs []int) FeedFilter {
	return FeedFilter{
		ApprovedOnly:  true,
		Scoped:        true,
		PublisherIDs:  publisherIDs,
		JournalistIDs: journalistIDs,
	}
}
