package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/newswire/apiserver/types"
)

// PublisherRepository handles persistence for publishers.
type PublisherRepository struct {
	db *sql.DB
}

func NewPublisherRepository(db *sql.DB) *PublisherRepository {
	return &PublisherRepository{db: db}
}

func (r *PublisherRepository) Get(ctx context.Context, id int) (types.Publisher, error) {
	const query = `
		SELECT id, name, description, created_at, updated_at
		FROM publishers
		WHERE id = $1`
	var publisher types.Publisher
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&publisher.ID,
		&publisher.Name,
		&publisher.Description,
		&publisher.CreatedAt,
		&publisher.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Publisher{}, ErrNotFound
		}
		return types.Publisher{}, err
	}
	return publisher, nil
}

func (r *PublisherRepository) List(ctx context.Context, offset, limit int) ([]types.Publisher, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `SELECT COUNT(1) FROM publishers`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT id, name, description, created_at, updated_at
		FROM publishers
		ORDER BY name
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, listQuery, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	publishers := make([]types.Publisher, 0, limit)
	for rows.Next() {
		var publisher types.Publisher
		if err := rows.Scan(
			&publisher.ID,
			&publisher.Name,
			&publisher.Description,
			&publisher.CreatedAt,
			&publisher.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		publishers = append(publishers, publisher)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return publishers, total, nil
}

func (r *PublisherRepository) Create(ctx context.Context, publisher types.Publisher) (types.Publisher, error) {
	now := time.Now()
	publisher.CreatedAt = now
	publisher.UpdatedAt = now

	const query = `
		INSERT INTO publishers (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		publisher.Name,
		publisher.Description,
		publisher.CreatedAt,
		publisher.UpdatedAt,
	).Scan(&publisher.ID); err != nil {
		return types.Publisher{}, err
	}
	return publisher, nil
}
