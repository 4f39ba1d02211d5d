package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/newswire/apiserver/types"
)

// SubscriptionRepository maintains the reader-to-source join sets used
// by the feed filter: reader→publisher subscriptions and
// reader→journalist follows.
type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// AddPublisher subscribes the reader to a publisher. Adding an existing
// subscription is a no-op.
func (r *SubscriptionRepository) AddPublisher(ctx context.Context, readerID, publisherID int) error {
	const query = `
		INSERT INTO publisher_subscriptions (reader_id, publisher_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (reader_id, publisher_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, readerID, publisherID, time.Now())
	return err
}

// RemovePublisher unsubscribes the reader. Removing an absent
// subscription is a no-op.
func (r *SubscriptionRepository) RemovePublisher(ctx context.Context, readerID, publisherID int) error {
	const query = `
		DELETE FROM publisher_subscriptions
		WHERE reader_id = $1 AND publisher_id = $2`
	_, err := r.db.ExecContext(ctx, query, readerID, publisherID)
	return err
}

// AddJournalist makes the reader follow a journalist, idempotently.
func (r *SubscriptionRepository) AddJournalist(ctx context.Context, readerID, journalistID int) error {
	const query = `
		INSERT INTO journalist_follows (reader_id, journalist_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (reader_id, journalist_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, readerID, journalistID, time.Now())
	return err
}

// RemoveJournalist removes a follow, idempotently.
func (r *SubscriptionRepository) RemoveJournalist(ctx context.Context, readerID, journalistID int) error {
	const query = `
		DELETE FROM journalist_follows
		WHERE reader_id = $1 AND journalist_id = $2`
	_, err := r.db.ExecContext(ctx, query, readerID, journalistID)
	return err
}

// PublisherIDs returns the ids of publishers the reader subscribes to.
func (r *SubscriptionRepository) PublisherIDs(ctx context.Context, readerID int) ([]int, error) {
	const query = `
		SELECT publisher_id
		FROM publisher_subscriptions
		WHERE reader_id = $1`
	return r.scanIDs(ctx, query, readerID)
}

// JournalistIDs returns the ids of journalists the reader follows.
func (r *SubscriptionRepository) JournalistIDs(ctx context.Context, readerID int) ([]int, error) {
	const query = `
		SELECT journalist_id
		FROM journalist_follows
		WHERE reader_id = $1`
	return r.scanIDs(ctx, query, readerID)
}

// Subscriptions returns the reader's two subscription sets as of call
// time.
func (r *SubscriptionRepository) Subscriptions(ctx context.Context, readerID int) (types.Subscriptions, error) {
	const publisherQuery = `
		SELECT p.id, p.name, p.description, p.created_at, p.updated_at
		FROM publishers p
		JOIN publisher_subscriptions s ON s.publisher_id = p.id
		WHERE s.reader_id = $1
		ORDER BY p.name`
	rows, err := r.db.QueryContext(ctx, publisherQuery, readerID)
	if err != nil {
		return types.Subscriptions{}, err
	}
	defer rows.Close()

	subs := types.Subscriptions{
		Publishers:  []types.Publisher{},
		Journalists: []types.User{},
	}
	for rows.Next() {
		var publisher types.Publisher
		if err := rows.Scan(
			&publisher.ID,
			&publisher.Name,
			&publisher.Description,
			&publisher.CreatedAt,
			&publisher.UpdatedAt,
		); err != nil {
			return types.Subscriptions{}, err
		}
		subs.Publishers = append(subs.Publishers, publisher)
	}
	if err := rows.Err(); err != nil {
		return types.Subscriptions{}, err
	}

	const journalistQuery = `
		SELECT u.id, u.username, u.email, u.name, u.role, u.affiliated_publisher_id, u.password_hash, u.created_at, u.updated_at
		FROM users u
		JOIN journalist_follows f ON f.journalist_id = u.id
		WHERE f.reader_id = $1
		ORDER BY u.username`
	journalistRows, err := r.db.QueryContext(ctx, journalistQuery, readerID)
	if err != nil {
		return types.Subscriptions{}, err
	}
	defer journalistRows.Close()

	for journalistRows.Next() {
		user, err := scanUser(journalistRows)
		if err != nil {
			return types.Subscriptions{}, err
		}
		subs.Journalists = append(subs.Journalists, user)
	}
	if err := journalistRows.Err(); err != nil {
		return types.Subscriptions{}, err
	}
	return subs, nil
}

// NotificationRecipients resolves the email addresses to notify for an
// approved item: readers subscribed to its publisher plus readers
// following its author, de-duplicated.
func (r *SubscriptionRepository) NotificationRecipients(ctx context.Context, publisherID *int, authorID int) ([]string, error) {
	const query = `
		SELECT DISTINCT u.email
		FROM users u
		WHERE u.role = 'reader'
		  AND (
			u.id IN (SELECT reader_id FROM publisher_subscriptions WHERE publisher_id = $1)
			OR u.id IN (SELECT reader_id FROM journalist_follows WHERE journalist_id = $2)
		  )
		ORDER BY u.email`
	rows, err := r.db.QueryContext(ctx, query, publisherID, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *SubscriptionRepository) scanIDs(ctx context.Context, query string, readerID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, query, readerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
