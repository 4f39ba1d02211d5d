package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newswire/apiserver/internal/events"
	"github.com/newswire/apiserver/types"
)

// ApprovalPublisher emits events for freshly approved content.
type ApprovalPublisher interface {
	PublishApproval(ctx context.Context, event events.ApprovalEvent) error
}

// ApprovalService runs the editorial workflow. Approval and rejection
// are terminal; a second decision on the same item fails with
// store.ErrInvalidState, which also serializes concurrent editors.
type ApprovalService struct {
	articles    ArticleRepository
	newsletters NewsletterRepository
	users       UserRepository
	publishers  PublisherGetter
	bus         ApprovalPublisher
	logger      *slog.Logger
	baseURL     string
}

func NewApprovalService(
	articles ArticleRepository,
	newsletters NewsletterRepository,
	users UserRepository,
	publishers PublisherGetter,
	bus ApprovalPublisher,
	logger *slog.Logger,
	baseURL string,
) *ApprovalService {
	return &ApprovalService{
		articles:    articles,
		newsletters: newsletters,
		users:       users,
		publishers:  publishers,
		bus:         bus,
		logger:      logger,
		baseURL:     baseURL,
	}
}

// authorize checks the actor may decide on content belonging to the
// given publisher. Publisher content is decided by editors affiliated
// with that publisher; independent content by any editor.
func (s *ApprovalService) authorize(actor types.User, publisherID *int) error {
	if actor.Role != types.RoleEditor {
		return fmt.Errorf("%w: only editors decide on content", ErrPermission)
	}
	if publisherID == nil {
		return nil
	}
	if actor.AffiliatedPublisherID == nil || *actor.AffiliatedPublisherID != *publisherID {
		return fmt.Errorf("%w: editor is not affiliated with the content's publisher", ErrPermission)
	}
	return nil
}

// ApproveArticle marks the article approved and fires the notification
// and social-post side effects. Side-effect failures are logged, never
// rolled back into the approval.
func (s *ApprovalService) ApproveArticle(ctx context.Context, actor types.User, id int) (types.Article, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return types.Article{}, err
	}
	if err := s.authorize(actor, article.PublisherID); err != nil {
		return types.Article{}, err
	}

	approved, err := s.articles.Approve(ctx, id, actor.ID)
	if err != nil {
		return types.Article{}, err
	}

	coverURL := ""
	if approved.CoverImageKey != "" {
		coverURL = fmt.Sprintf("%s/articles/%d/image", s.baseURL, approved.ID)
	}

	s.publishApproval(ctx, events.ApprovalEvent{
		Kind:          "article",
		ContentID:     approved.ID,
		Title:         approved.Title,
		Body:          approved.Body,
		AuthorID:      approved.AuthorID,
		PublisherID:   approved.PublisherID,
		EditorID:      actor.ID,
		Link:          fmt.Sprintf("%s/articles/%d", s.baseURL, approved.ID),
		CoverImageURL: coverURL,
	})

	return approved, nil
}

// RejectArticle marks the article rejected. No side effects fire.
func (s *ApprovalService) RejectArticle(ctx context.Context, actor types.User, id int) (types.Article, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return types.Article{}, err
	}
	if err := s.authorize(actor, article.PublisherID); err != nil {
		return types.Article{}, err
	}
	return s.articles.Reject(ctx, id)
}

// ApproveNewsletter marks the newsletter approved and fires the side
// effects, like ApproveArticle.
func (s *ApprovalService) ApproveNewsletter(ctx context.Context, actor types.User, id int) (types.Newsletter, error) {
	newsletter, err := s.newsletters.Get(ctx, id)
	if err != nil {
		return types.Newsletter{}, err
	}
	if err := s.authorize(actor, newsletter.PublisherID); err != nil {
		return types.Newsletter{}, err
	}

	approved, err := s.newsletters.Approve(ctx, id, actor.ID)
	if err != nil {
		return types.Newsletter{}, err
	}

	s.publishApproval(ctx, events.ApprovalEvent{
		Kind:        "newsletter",
		ContentID:   approved.ID,
		Title:       approved.Subject,
		Body:        approved.Content,
		AuthorID:    approved.AuthorID,
		PublisherID: approved.PublisherID,
		EditorID:    actor.ID,
		Link:        fmt.Sprintf("%s/newsletters/%d", s.baseURL, approved.ID),
	})

	return approved, nil
}

// RejectNewsletter marks the newsletter rejected. No side effects fire.
func (s *ApprovalService) RejectNewsletter(ctx context.Context, actor types.User, id int) (types.Newsletter, error) {
	newsletter, err := s.newsletters.Get(ctx, id)
	if err != nil {
		return types.Newsletter{}, err
	}
	if err := s.authorize(actor, newsletter.PublisherID); err != nil {
		return types.Newsletter{}, err
	}
	return s.newsletters.Reject(ctx, id)
}

// publishApproval enriches the event with display names and hands it
// to the bus. The approval already committed, so failures here are
// logged and dropped.
func (s *ApprovalService) publishApproval(ctx context.Context, event events.ApprovalEvent) {
	if author, err := s.users.GetByID(ctx, event.AuthorID); err == nil {
		event.AuthorName = author.DisplayName()
	} else {
		s.logger.Error("could not resolve author for approval event",
			"kind", event.Kind, "content_id", event.ContentID, "error", err)
	}

	if event.PublisherID != nil {
		if publisher, err := s.publishers.Get(ctx, *event.PublisherID); err == nil {
			event.PublisherName = publisher.Name
		} else {
			s.logger.Error("could not resolve publisher for approval event",
				"kind", event.Kind, "content_id", event.ContentID, "error", err)
		}
	}

	if err := s.bus.PublishApproval(ctx, event); err != nil {
		s.logger.Error("could not publish approval event",
			"kind", event.Kind, "content_id", event.ContentID, "error", err)
	}
}
