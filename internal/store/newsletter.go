package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/newswire/apiserver/types"
)

// NewsletterRepository handles persistence for newsletters.
type NewsletterRepository struct {
	db *sql.DB
}

func NewNewsletterRepository(db *sql.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

const newsletterColumns = `id, subject, content, author_id, publisher_id, status, approved_by, created_at, updated_at`

func scanNewsletter(row interface{ Scan(...any) error }) (types.Newsletter, error) {
	var newsletter types.Newsletter
	err := row.Scan(
		&newsletter.ID,
		&newsletter.Subject,
		&newsletter.Content,
		&newsletter.AuthorID,
		&newsletter.PublisherID,
		&newsletter.Status,
		&newsletter.ApprovedByID,
		&newsletter.CreatedAt,
		&newsletter.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Newsletter{}, ErrNotFound
		}
		return types.Newsletter{}, err
	}
	return newsletter, nil
}

func (r *NewsletterRepository) Get(ctx context.Context, id int) (types.Newsletter, error) {
	const query = `
		SELECT ` + newsletterColumns + `
		FROM newsletters
		WHERE id = $1`
	return scanNewsletter(r.db.QueryRowContext(ctx, query, id))
}

// List returns the newsletters matching the visibility filter, newest
// first, along with the total count of the unpaginated match set.
func (r *NewsletterRepository) List(ctx context.Context, filter types.FeedFilter, offset, limit int) ([]types.Newsletter, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	countQuery, countArgs, err := feedCount("newsletters", filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery, listArgs, err := feedSelect("newsletters", newsletterColumns, filter, offset, limit).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	newsletters := make([]types.Newsletter, 0, limit)
	for rows.Next() {
		newsletter, err := scanNewsletter(rows)
		if err != nil {
			return nil, 0, err
		}
		newsletters = append(newsletters, newsletter)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return newsletters, total, nil
}

func (r *NewsletterRepository) Create(ctx context.Context, newsletter types.Newsletter) (types.Newsletter, error) {
	now := time.Now()
	newsletter.CreatedAt = now
	newsletter.UpdatedAt = now
	newsletter.Status = types.StatusPending
	newsletter.ApprovedByID = nil

	const query = `
		INSERT INTO newsletters (subject, content, author_id, publisher_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		newsletter.Subject,
		newsletter.Content,
		newsletter.AuthorID,
		newsletter.PublisherID,
		newsletter.Status,
		newsletter.CreatedAt,
		newsletter.UpdatedAt,
	).Scan(&newsletter.ID); err != nil {
		return types.Newsletter{}, err
	}
	return newsletter, nil
}

// Approve transitions a pending newsletter to approved; see
// ArticleRepository.Approve for the race semantics.
func (r *NewsletterRepository) Approve(ctx context.Context, id, editorID int) (types.Newsletter, error) {
	const query = `
		UPDATE newsletters
		SET status = 'approved',
			approved_by = $1,
			updated_at = $2
		WHERE id = $3 AND status = 'pending'
		RETURNING ` + newsletterColumns
	newsletter, err := scanNewsletter(r.db.QueryRowContext(ctx, query, editorID, time.Now(), id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.Newsletter{}, r.transitionFailure(ctx, id)
		}
		return types.Newsletter{}, err
	}
	return newsletter, nil
}

// Reject transitions a pending newsletter to the terminal rejected state.
func (r *NewsletterRepository) Reject(ctx context.Context, id int) (types.Newsletter, error) {
	const query = `
		UPDATE newsletters
		SET status = 'rejected',
			updated_at = $1
		WHERE id = $2 AND status = 'pending'
		RETURNING ` + newsletterColumns
	newsletter, err := scanNewsletter(r.db.QueryRowContext(ctx, query, time.Now(), id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.Newsletter{}, r.transitionFailure(ctx, id)
		}
		return types.Newsletter{}, err
	}
	return newsletter, nil
}

func (r *NewsletterRepository) transitionFailure(ctx context.Context, id int) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return ErrInvalidState
}
