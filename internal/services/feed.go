package services

import (
	"context"

	"github.com/newswire/apiserver/types"
)

// combinedFeedCap limits each list in the combined feed. The totals
// reported alongside are never capped.
const combinedFeedCap = 10

// FeedService builds per-actor content feeds. Staff (journalists and
// editors) see everything; readers see only approved content from
// publishers they subscribe to or journalists they follow.
type FeedService struct {
	articles      ArticleRepository
	newsletters   NewsletterRepository
	subscriptions SubscriptionRepository
}

func NewFeedService(articles ArticleRepository, newsletters NewsletterRepository, subscriptions SubscriptionRepository) *FeedService {
	return &FeedService{
		articles:      articles,
		newsletters:   newsletters,
		subscriptions: subscriptions,
	}
}

// CombinedFeed pairs the newest articles and newsletters visible to
// an actor with their unpaged totals.
type CombinedFeed struct {
	Articles         []types.Article    `json:"articles"`
	Newsletters      []types.Newsletter `json:"newsletters"`
	TotalArticles    int                `json:"total_articles"`
	TotalNewsletters int                `json:"total_newsletters"`
}

// filterFor derives the content filter the actor's feed runs under. A
// reader with no subscriptions gets a filter that matches nothing.
func (s *FeedService) filterFor(ctx context.Context, actor types.User) (types.FeedFilter, error) {
	if actor.Role != types.RoleReader {
		return types.StaffFeedFilter(), nil
	}

	publisherIDs, err := s.subscriptions.PublisherIDs(ctx, actor.ID)
	if err != nil {
		return types.FeedFilter{}, err
	}
	journalistIDs, err := s.subscriptions.JournalistIDs(ctx, actor.ID)
	if err != nil {
		return types.FeedFilter{}, err
	}
	return types.ReaderFeedFilter(publisherIDs, journalistIDs), nil
}

// ListArticles returns a page of the actor's article feed plus the
// unpaged total, newest first.
func (s *FeedService) ListArticles(ctx context.Context, actor types.User, offset, limit int) ([]types.Article, int, error) {
	filter, err := s.filterFor(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return s.articles.List(ctx, filter, offset, limit)
}

// ListNewsletters returns a page of the actor's newsletter feed plus
// the unpaged total, newest first.
func (s *FeedService) ListNewsletters(ctx context.Context, actor types.User, offset, limit int) ([]types.Newsletter, int, error) {
	filter, err := s.filterFor(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return s.newsletters.List(ctx, filter, offset, limit)
}

// Combined returns the actor's article and newsletter feeds side by
// side, each capped at the combined-feed limit.
func (s *FeedService) Combined(ctx context.Context, actor types.User) (CombinedFeed, error) {
	filter, err := s.filterFor(ctx, actor)
	if err != nil {
		return CombinedFeed{}, err
	}

	articles, totalArticles, err := s.articles.List(ctx, filter, 0, combinedFeedCap)
	if err != nil {
		return CombinedFeed{}, err
	}
	newsletters, totalNewsletters, err := s.newsletters.List(ctx, filter, 0, combinedFeedCap)
	if err != nil {
		return CombinedFeed{}, err
	}

	return CombinedFeed{
		Articles:         articles,
		Newsletters:      newsletters,
		TotalArticles:    totalArticles,
		TotalNewsletters: totalNewsletters,
	}, nil
}
