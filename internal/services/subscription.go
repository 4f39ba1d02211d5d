package services

import (
	"context"
	"fmt"

	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
)

// SubscriptionRepository defines persistence operations for the
// reader subscription index.
type SubscriptionRepository interface {
	AddPublisher(ctx context.Context, readerID, publisherID int) error
	AddJournalist(ctx context.Context, readerID, journalistID int) error
	RemovePublisher(ctx context.Context, readerID, publisherID int) error
	RemoveJournalist(ctx context.Context, readerID, journalistID int) error
	PublisherIDs(ctx context.Context, readerID int) ([]int, error)
	JournalistIDs(ctx context.Context, readerID int) ([]int, error)
	Subscriptions(ctx context.Context, readerID int) (types.Subscriptions, error)
}

// SubscriptionService encapsulates subscription use-cases.
type SubscriptionService struct {
	repo       SubscriptionRepository
	users      UserRepository
	publishers PublisherGetter
}

func NewSubscriptionService(repo SubscriptionRepository, users UserRepository, publishers PublisherGetter) *SubscriptionService {
	return &SubscriptionService{repo: repo, users: users, publishers: publishers}
}

// SubscriptionTarget names the entity a reader wants to follow.
// Exactly one of the two fields must be set.
type SubscriptionTarget struct {
	PublisherID  *int
	JournalistID *int
}

func (t SubscriptionTarget) validate() error {
	if (t.PublisherID == nil) == (t.JournalistID == nil) {
		return fmt.Errorf("%w: exactly one of publisher_id and journalist_id is required", ErrValidation)
	}
	return nil
}

// Subscribe adds the target to the reader's subscription index.
// Subscribing twice is a no-op. The target must exist; a journalist
// target must actually hold the journalist role.
func (s *SubscriptionService) Subscribe(ctx context.Context, actor types.User, target SubscriptionTarget) error {
	if actor.Role != types.RoleReader {
		return fmt.Errorf("%w: only readers manage subscriptions", ErrPermission)
	}
	if err := target.validate(); err != nil {
		return err
	}

	if target.PublisherID != nil {
		if _, err := s.publishers.Get(ctx, *target.PublisherID); err != nil {
			return err
		}
		return s.repo.AddPublisher(ctx, actor.ID, *target.PublisherID)
	}

	journalist, err := s.users.GetByID(ctx, *target.JournalistID)
	if err != nil {
		return err
	}
	if journalist.Role != types.RoleJournalist {
		return store.ErrNotFound
	}
	return s.repo.AddJournalist(ctx, actor.ID, *target.JournalistID)
}

// Unsubscribe removes the target from the reader's index. Removing a
// subscription that does not exist is a no-op.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, actor types.User, target SubscriptionTarget) error {
	if actor.Role != types.RoleReader {
		return fmt.Errorf("%w: only readers manage subscriptions", ErrPermission)
	}
	if err := target.validate(); err != nil {
		return err
	}
	if target.PublisherID != nil {
		return s.repo.RemovePublisher(ctx, actor.ID, *target.PublisherID)
	}
	return s.repo.RemoveJournalist(ctx, actor.ID, *target.JournalistID)
}

// List returns the reader's current subscriptions.
func (s *SubscriptionService) List(ctx context.Context, actor types.User) (types.Subscriptions, error) {
	if actor.Role != types.RoleReader {
		return types.Subscriptions{}, fmt.Errorf("%w: only readers manage subscriptions", ErrPermission)
	}
	subs, err := s.repo.Subscriptions(ctx, actor.ID)
	if err != nil {
		return types.Subscriptions{}, err
	}
	return subs, nil
}
