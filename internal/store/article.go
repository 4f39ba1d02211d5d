package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/newswire/apiserver/types"
)

// ArticleRepository handles persistence for articles.
type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `id, title, body, author_id, publisher_id, status, approved_by, cover_image_key, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (types.Article, error) {
	var article types.Article
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Body,
		&article.AuthorID,
		&article.PublisherID,
		&article.Status,
		&article.ApprovedByID,
		&article.CoverImageKey,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Article{}, ErrNotFound
		}
		return types.Article{}, err
	}
	return article, nil
}

func (r *ArticleRepository) Get(ctx context.Context, id int) (types.Article, error) {
	const query = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE id = $1`
	return scanArticle(r.db.QueryRowContext(ctx, query, id))
}

// List returns the articles matching the visibility filter, newest
// first, along with the total count of the unpaginated match set.
func (r *ArticleRepository) List(ctx context.Context, filter types.FeedFilter, offset, limit int) ([]types.Article, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	countQuery, countArgs, err := feedCount("articles", filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery, listArgs, err := feedSelect("articles", articleColumns, filter, offset, limit).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	articles := make([]types.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *ArticleRepository) Create(ctx context.Context, article types.Article) (types.Article, error) {
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now
	article.Status = types.StatusPending
	article.ApprovedByID = nil

	const query = `
		INSERT INTO articles (title, body, author_id, publisher_id, status, cover_image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		article.Title,
		article.Body,
		article.AuthorID,
		article.PublisherID,
		article.Status,
		article.CoverImageKey,
		article.CreatedAt,
		article.UpdatedAt,
	).Scan(&article.ID); err != nil {
		return types.Article{}, err
	}
	return article, nil
}

// Approve transitions a pending article to approved. The guard on the
// current status serializes racing editors in the database: the loser
// matches no row and observes ErrInvalidState.
func (r *ArticleRepository) Approve(ctx context.Context, id, editorID int) (types.Article, error) {
	const query = `
		UPDATE articles
		SET status = 'approved',
			approved_by = $1,
			updated_at = $2
		WHERE id = $3 AND status = 'pending'
		RETURNING ` + articleColumns
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, editorID, time.Now(), id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.Article{}, r.transitionFailure(ctx, id)
		}
		return types.Article{}, err
	}
	return article, nil
}

// Reject transitions a pending article to the terminal rejected state.
func (r *ArticleRepository) Reject(ctx context.Context, id int) (types.Article, error) {
	const query = `
		UPDATE articles
		SET status = 'rejected',
			updated_at = $1
		WHERE id = $2 AND status = 'pending'
		RETURNING ` + articleColumns
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, time.Now(), id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return types.Article{}, r.transitionFailure(ctx, id)
		}
		return types.Article{}, err
	}
	return article, nil
}

// SetCoverImage records the object-storage key of the article's cover.
func (r *ArticleRepository) SetCoverImage(ctx context.Context, id int, key string) error {
	const query = `
		UPDATE articles
		SET cover_image_key = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, key, time.Now(), id)
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

// transitionFailure distinguishes a missing article from one that has
// already left the pending state.
func (r *ArticleRepository) transitionFailure(ctx context.Context, id int) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return ErrInvalidState
}
