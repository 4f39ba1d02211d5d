package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
)

// NewsletterRepository defines persistence operations for newsletters.
type NewsletterRepository interface {
	Get(ctx context.Context, id int) (types.Newsletter, error)
	List(ctx context.Context, filter types.FeedFilter, offset, limit int) ([]types.Newsletter, int, error)
	Create(ctx context.Context, newsletter types.Newsletter) (types.Newsletter, error)
	Approve(ctx context.Context, id, editorID int) (types.Newsletter, error)
	Reject(ctx context.Context, id int) (types.Newsletter, error)
}

// NewsletterService encapsulates newsletter use-cases.
type NewsletterService struct {
	repo       NewsletterRepository
	publishers PublisherGetter
}

func NewNewsletterService(repo NewsletterRepository, publishers PublisherGetter) *NewsletterService {
	return &NewsletterService{repo: repo, publishers: publishers}
}

// Create submits a new newsletter for approval under the author's own
// byline; only journalists may submit.
func (s *NewsletterService) Create(ctx context.Context, actor types.User, newsletter types.Newsletter) (types.Newsletter, error) {
	if actor.Role != types.RoleJournalist {
		return types.Newsletter{}, fmt.Errorf("%w: only journalists may submit newsletters", ErrPermission)
	}

	newsletter.Subject = strings.TrimSpace(newsletter.Subject)
	if newsletter.Subject == "" || strings.TrimSpace(newsletter.Content) == "" {
		return types.Newsletter{}, fmt.Errorf("%w: subject and content are required", ErrValidation)
	}

	if newsletter.PublisherID != nil {
		if _, err := s.publishers.Get(ctx, *newsletter.PublisherID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return types.Newsletter{}, fmt.Errorf("%w: publisher does not exist", ErrValidation)
			}
			return types.Newsletter{}, err
		}
	}

	newsletter.AuthorID = actor.ID
	return s.repo.Create(ctx, newsletter)
}

// Get returns the newsletter when the actor may see it. Readers only
// see approved content.
func (s *NewsletterService) Get(ctx context.Context, actor types.User, id int) (types.Newsletter, error) {
	newsletter, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Newsletter{}, err
	}
	if actor.Role == types.RoleReader && !newsletter.IsApproved() {
		return types.Newsletter{}, store.ErrNotFound
	}
	return newsletter, nil
}
