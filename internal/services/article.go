package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
)

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	Get(ctx context.Context, id int) (types.Article, error)
	List(ctx context.Context, filter types.FeedFilter, offset, limit int) ([]types.Article, int, error)
	Create(ctx context.Context, article types.Article) (types.Article, error)
	Approve(ctx context.Context, id, editorID int) (types.Article, error)
	Reject(ctx context.Context, id int) (types.Article, error)
	SetCoverImage(ctx context.Context, id int, key string) error
}

// ArticleService encapsulates article use-cases.
type ArticleService struct {
	repo       ArticleRepository
	publishers PublisherGetter
}

func NewArticleService(repo ArticleRepository, publishers PublisherGetter) *ArticleService {
	return &ArticleService{repo: repo, publishers: publishers}
}

// Create submits a new article for approval. Only journalists write
// articles, and always under their own byline. The publisher, when
// given, must exist; without one the piece is independent work.
func (s *ArticleService) Create(ctx context.Context, actor types.User, article types.Article) (types.Article, error) {
	if actor.Role != types.RoleJournalist {
		return types.Article{}, fmt.Errorf("%w: only journalists may submit articles", ErrPermission)
	}

	article.Title = strings.TrimSpace(article.Title)
	if article.Title == "" || strings.TrimSpace(article.Body) == "" {
		return types.Article{}, fmt.Errorf("%w: title and body are required", ErrValidation)
	}

	if article.PublisherID != nil {
		if _, err := s.publishers.Get(ctx, *article.PublisherID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return types.Article{}, fmt.Errorf("%w: publisher does not exist", ErrValidation)
			}
			return types.Article{}, err
		}
	}

	article.AuthorID = actor.ID
	return s.repo.Create(ctx, article)
}

// Get returns the article when the actor may see it. Readers only see
// approved content; an unapproved article is absent from their point
// of view rather than forbidden.
func (s *ArticleService) Get(ctx context.Context, actor types.User, id int) (types.Article, error) {
	article, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Article{}, err
	}
	if actor.Role == types.RoleReader && !article.IsApproved() {
		return types.Article{}, store.ErrNotFound
	}
	return article, nil
}

// AttachCover records the storage key of an uploaded cover image. Only
// the article's author may change its cover.
func (s *ArticleService) AttachCover(ctx context.Context, actor types.User, id int, key string) (types.Article, error) {
	article, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Article{}, err
	}
	if article.AuthorID != actor.ID {
		return types.Article{}, fmt.Errorf("%w: only the author may attach a cover image", ErrPermission)
	}
	if err := s.repo.SetCoverImage(ctx, id, key); err != nil {
		return types.Article{}, err
	}
	article.CoverImageKey = key
	return article, nil
}
