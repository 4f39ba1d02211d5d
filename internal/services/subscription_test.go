package services

import (
	"context"
	"testing"

	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subscriptionFixture struct {
	service *SubscriptionService
	repo    *fakeSubscriptionRepo

	reader     types.User
	journalist types.User
	editor     types.User
	publisher  types.Publisher
}

func newSubscriptionFixture(t *testing.T) *subscriptionFixture {
	t.Helper()

	users := newFakeUserRepo()
	publishers := newFakePublisherRepo()
	repo := newFakeSubscriptionRepo()

	ctx := context.Background()
	publisher, err := publishers.Create(ctx, types.Publisher{Name: "The Daily Engine"})
	require.NoError(t, err)

	reader, err := users.Create(ctx, types.User{Username: "reader", Role: types.RoleReader})
	require.NoError(t, err)
	journalist, err := users.Create(ctx, types.User{Username: "anna", Role: types.RoleJournalist})
	require.NoError(t, err)
	editor, err := users.Create(ctx, types.User{Username: "ed", Role: types.RoleEditor})
	require.NoError(t, err)

	return &subscriptionFixture{
		service:    NewSubscriptionService(repo, users, publishers),
		repo:       repo,
		reader:     reader,
		journalist: journalist,
		editor:     editor,
		publisher:  publisher,
	}
}

func TestSubscribeReaderOnly(t *testing.T) {
	f := newSubscriptionFixture(t)
	target := SubscriptionTarget{PublisherID: &f.publisher.ID}

	for _, actor := range []types.User{f.journalist, f.editor} {
		assert.ErrorIs(t, f.service.Subscribe(context.Background(), actor, target), ErrPermission)
		assert.ErrorIs(t, f.service.Unsubscribe(context.Background(), actor, target), ErrPermission)
		_, err := f.service.List(context.Background(), actor)
		assert.ErrorIs(t, err, ErrPermission)
	}
}

func TestSubscribeExactlyOneTarget(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	err := f.service.Subscribe(ctx, f.reader, SubscriptionTarget{})
	assert.ErrorIs(t, err, ErrValidation)

	err = f.service.Subscribe(ctx, f.reader, SubscriptionTarget{
		PublisherID:  &f.publisher.ID,
		JournalistID: &f.journalist.ID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubscribeUnknownTargets(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	missing := 999
	err := f.service.Subscribe(ctx, f.reader, SubscriptionTarget{PublisherID: &missing})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = f.service.Subscribe(ctx, f.reader, SubscriptionTarget{JournalistID: &missing})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Following an account that is not a journalist is also absence.
	err = f.service.Subscribe(ctx, f.reader, SubscriptionTarget{JournalistID: &f.editor.ID})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubscribeRoundTrip(t *testing.T) {
	f := newSubscriptionFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.Subscribe(ctx, f.reader, SubscriptionTarget{PublisherID: &f.publisher.ID}))
	require.NoError(t, f.service.Subscribe(ctx, f.reader, SubscriptionTarget{JournalistID: &f.journalist.ID}))

	// Duplicate subscription is a no-op.
	require.NoError(t, f.service.Subscribe(ctx, f.reader, SubscriptionTarget{PublisherID: &f.publisher.ID}))

	subs, err := f.service.List(ctx, f.reader)
	require.NoError(t, err)
	assert.Len(t, subs.Publishers, 1)
	assert.Len(t, subs.Journalists, 1)

	require.NoError(t, f.service.Unsubscribe(ctx, f.reader, SubscriptionTarget{PublisherID: &f.publisher.ID}))
	// Unsubscribing again stays quiet.
	require.NoError(t, f.service.Unsubscribe(ctx, f.reader, SubscriptionTarget{PublisherID: &f.publisher.ID}))

	subs, err = f.service.List(ctx, f.reader)
	require.NoError(t, err)
	assert.Empty(t, subs.Publishers)
	assert.Len(t, subs.Journalists, 1)
}
