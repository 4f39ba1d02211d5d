package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/newswire/apiserver/internal/events"
	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
)

// In-memory repository fakes mirroring the postgres semantics the
// services rely on, including the conditional pending-only approval
// transition.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int]types.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]types.User), nextID: 1}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	f.users[id] = user
	return nil
}

func (f *fakeUserRepo) ListJournalists(_ context.Context, offset, limit int) ([]types.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var journalists []types.User
	for _, user := range f.users {
		if user.Role == types.RoleJournalist {
			journalists = append(journalists, user)
		}
	}
	sort.Slice(journalists, func(i, j int) bool {
		return journalists[i].Username < journalists[j].Username
	})
	total := len(journalists)
	return pageOf(journalists, offset, limit), total, nil
}

type fakePublisherRepo struct {
	mu         sync.Mutex
	publishers map[int]types.Publisher
	nextID     int
}

func newFakePublisherRepo() *fakePublisherRepo {
	return &fakePublisherRepo{publishers: make(map[int]types.Publisher), nextID: 1}
}

func (f *fakePublisherRepo) Get(_ context.Context, id int) (types.Publisher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	publisher, ok := f.publishers[id]
	if !ok {
		return types.Publisher{}, store.ErrNotFound
	}
	return publisher, nil
}

func (f *fakePublisherRepo) List(_ context.Context, offset, limit int) ([]types.Publisher, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []types.Publisher
	for _, publisher := range f.publishers {
		all = append(all, publisher)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := len(all)
	return pageOf(all, offset, limit), total, nil
}

func (f *fakePublisherRepo) Create(_ context.Context, publisher types.Publisher) (types.Publisher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	publisher.ID = f.nextID
	f.nextID++
	f.publishers[publisher.ID] = publisher
	return publisher, nil
}

type fakeArticleRepo struct {
	mu       sync.Mutex
	articles map[int]types.Article
	nextID   int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[int]types.Article), nextID: 1}
}

func (f *fakeArticleRepo) Get(_ context.Context, id int) (types.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return types.Article{}, store.ErrNotFound
	}
	return article, nil
}

func (f *fakeArticleRepo) List(_ context.Context, filter types.FeedFilter, offset, limit int) ([]types.Article, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []types.Article
	for _, article := range f.articles {
		if matchesFilter(filter, article.Status, article.PublisherID, article.AuthorID) {
			matched = append(matched, article)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	total := len(matched)
	return pageOf(matched, offset, limit), total, nil
}

func (f *fakeArticleRepo) Create(_ context.Context, article types.Article) (types.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article.ID = f.nextID
	f.nextID++
	article.Status = types.StatusPending
	article.ApprovedByID = nil
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	f.articles[article.ID] = article
	return article, nil
}

func (f *fakeArticleRepo) Approve(_ context.Context, id, editorID int) (types.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return types.Article{}, store.ErrNotFound
	}
	if article.Status != types.StatusPending {
		return types.Article{}, store.ErrInvalidState
	}
	article.Status = types.StatusApproved
	article.ApprovedByID = &editorID
	f.articles[id] = article
	return article, nil
}

func (f *fakeArticleRepo) Reject(_ context.Context, id int) (types.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return types.Article{}, store.ErrNotFound
	}
	if article.Status != types.StatusPending {
		return types.Article{}, store.ErrInvalidState
	}
	article.Status = types.StatusRejected
	f.articles[id] = article
	return article, nil
}

func (f *fakeArticleRepo) SetCoverImage(_ context.Context, id int, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return store.ErrNotFound
	}
	article.CoverImageKey = key
	f.articles[id] = article
	return nil
}

type fakeNewsletterRepo struct {
	mu          sync.Mutex
	newsletters map[int]types.Newsletter
	nextID      int
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{newsletters: make(map[int]types.Newsletter), nextID: 1}
}

func (f *fakeNewsletterRepo) Get(_ context.Context, id int) (types.Newsletter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	newsletter, ok := f.newsletters[id]
	if !ok {
		return types.Newsletter{}, store.ErrNotFound
	}
	return newsletter, nil
}

func (f *fakeNewsletterRepo) List(_ context.Context, filter types.FeedFilter, offset, limit int) ([]types.Newsletter, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []types.Newsletter
	for _, newsletter := range f.newsletters {
		if matchesFilter(filter, newsletter.Status, newsletter.PublisherID, newsletter.AuthorID) {
			matched = append(matched, newsletter)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	total := len(matched)
	return pageOf(matched, offset, limit), total, nil
}

func (f *fakeNewsletterRepo) Create(_ context.Context, newsletter types.Newsletter) (types.Newsletter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	newsletter.ID = f.nextID
	f.nextID++
	newsletter.Status = types.StatusPending
	newsletter.ApprovedByID = nil
	if newsletter.CreatedAt.IsZero() {
		newsletter.CreatedAt = time.Now()
	}
	f.newsletters[newsletter.ID] = newsletter
	return newsletter, nil
}

func (f *fakeNewsletterRepo) Approve(_ context.Context, id, editorID int) (types.Newsletter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	newsletter, ok := f.newsletters[id]
	if !ok {
		return types.Newsletter{}, store.ErrNotFound
	}
	if newsletter.Status != types.StatusPending {
		return types.Newsletter{}, store.ErrInvalidState
	}
	newsletter.Status = types.StatusApproved
	newsletter.ApprovedByID = &editorID
	f.newsletters[id] = newsletter
	return newsletter, nil
}

func (f *fakeNewsletterRepo) Reject(_ context.Context, id int) (types.Newsletter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	newsletter, ok := f.newsletters[id]
	if !ok {
		return types.Newsletter{}, store.ErrNotFound
	}
	if newsletter.Status != types.StatusPending {
		return types.Newsletter{}, store.ErrInvalidState
	}
	newsletter.Status = types.StatusRejected
	f.newsletters[id] = newsletter
	return newsletter, nil
}

type fakeSubscriptionRepo struct {
	mu          sync.Mutex
	publishers  map[int]map[int]bool
	journalists map[int]map[int]bool
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		publishers:  make(map[int]map[int]bool),
		journalists: make(map[int]map[int]bool),
	}
}

func (f *fakeSubscriptionRepo) AddPublisher(_ context.Context, readerID, publisherID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishers[readerID] == nil {
		f.publishers[readerID] = make(map[int]bool)
	}
	f.publishers[readerID][publisherID] = true
	return nil
}

func (f *fakeSubscriptionRepo) AddJournalist(_ context.Context, readerID, journalistID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.journalists[readerID] == nil {
		f.journalists[readerID] = make(map[int]bool)
	}
	f.journalists[readerID][journalistID] = true
	return nil
}

func (f *fakeSubscriptionRepo) RemovePublisher(_ context.Context, readerID, publisherID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.publishers[readerID], publisherID)
	return nil
}

func (f *fakeSubscriptionRepo) RemoveJournalist(_ context.Context, readerID, journalistID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.journalists[readerID], journalistID)
	return nil
}

func (f *fakeSubscriptionRepo) PublisherIDs(_ context.Context, readerID int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedKeys(f.publishers[readerID]), nil
}

func (f *fakeSubscriptionRepo) JournalistIDs(_ context.Context, readerID int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedKeys(f.journalists[readerID]), nil
}

func (f *fakeSubscriptionRepo) Subscriptions(_ context.Context, readerID int) (types.Subscriptions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := types.Subscriptions{Publishers: []types.Publisher{}, Journalists: []types.User{}}
	for _, id := range sortedKeys(f.publishers[readerID]) {
		subs.Publishers = append(subs.Publishers, types.Publisher{ID: id})
	}
	for _, id := range sortedKeys(f.journalists[readerID]) {
		subs.Journalists = append(subs.Journalists, types.User{ID: id})
	}
	return subs, nil
}

type fakeBus struct {
	mu     sync.Mutex
	events []events.ApprovalEvent
	err    error
}

func (f *fakeBus) PublishApproval(_ context.Context, event events.ApprovalEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeBus) published() []events.ApprovalEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.ApprovalEvent, len(f.events))
	copy(out, f.events)
	return out
}

func matchesFilter(filter types.FeedFilter, status types.ApprovalStatus, publisherID *int, authorID int) bool {
	if filter.ApprovedOnly && status != types.StatusApproved {
		return false
	}
	if !filter.Scoped {
		return true
	}
	if publisherID != nil {
		for _, id := range filter.PublisherIDs {
			if id == *publisherID {
				return true
			}
		}
	}
	for _, id := range filter.JournalistIDs {
		if id == authorID {
			return true
		}
	}
	return false
}

func pageOf[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
