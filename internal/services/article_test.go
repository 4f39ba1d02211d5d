package services

import (
	"context"
	"testing"

	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArticleFixture(t *testing.T) (*ArticleService, *fakeArticleRepo, *fakePublisherRepo) {
	t.Helper()
	repo := newFakeArticleRepo()
	publishers := newFakePublisherRepo()
	return NewArticleService(repo, publishers), repo, publishers
}

func TestArticleCreate(t *testing.T) {
	service, _, publishers := newArticleFixture(t)
	ctx := context.Background()

	publisher, err := publishers.Create(ctx, types.Publisher{Name: "The Daily Engine"})
	require.NoError(t, err)

	journalist := types.User{ID: 10, Role: types.RoleJournalist}
	created, err := service.Create(ctx, journalist, types.Article{
		Title: "Turbines", Body: "Steam.", PublisherID: &publisher.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, created.Status)
	assert.Equal(t, journalist.ID, created.AuthorID)
	assert.Nil(t, created.ApprovedByID)
}

func TestArticleCreateJournalistOnly(t *testing.T) {
	service, _, _ := newArticleFixture(t)
	article := types.Article{Title: "Turbines", Body: "Steam."}

	for _, actor := range []types.User{
		{ID: 1, Role: types.RoleReader},
		{ID: 2, Role: types.RoleEditor},
	} {
		_, err := service.Create(context.Background(), actor, article)
		assert.ErrorIs(t, err, ErrPermission)
	}
}

func TestArticleCreateValidation(t *testing.T) {
	service, _, _ := newArticleFixture(t)
	ctx := context.Background()
	journalist := types.User{ID: 10, Role: types.RoleJournalist}

	_, err := service.Create(ctx, journalist, types.Article{Title: " ", Body: "Steam."})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Create(ctx, journalist, types.Article{Title: "Turbines", Body: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	missing := 999
	_, err = service.Create(ctx, journalist, types.Article{
		Title: "Turbines", Body: "Steam.", PublisherID: &missing,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestArticleGetHidesUnapprovedFromReaders(t *testing.T) {
	service, repo, _ := newArticleFixture(t)
	ctx := context.Background()

	journalist := types.User{ID: 10, Role: types.RoleJournalist}
	reader := types.User{ID: 20, Role: types.RoleReader}
	editor := types.User{ID: 30, Role: types.RoleEditor}

	pending, err := service.Create(ctx, journalist, types.Article{Title: "Turbines", Body: "Steam."})
	require.NoError(t, err)

	// Staff see the pending piece; readers get absence, not a
	// permission error that would leak its existence.
	_, err = service.Get(ctx, editor, pending.ID)
	require.NoError(t, err)
	_, err = service.Get(ctx, reader, pending.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.Approve(ctx, pending.ID, editor.ID)
	require.NoError(t, err)

	fetched, err := service.Get(ctx, reader, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, fetched.Status)
}

func TestArticleAttachCoverAuthorOnly(t *testing.T) {
	service, _, _ := newArticleFixture(t)
	ctx := context.Background()

	author := types.User{ID: 10, Role: types.RoleJournalist}
	other := types.User{ID: 11, Role: types.RoleJournalist}

	created, err := service.Create(ctx, author, types.Article{Title: "Turbines", Body: "Steam."})
	require.NoError(t, err)

	_, err = service.AttachCover(ctx, other, created.ID, "articles/1/cover")
	assert.ErrorIs(t, err, ErrPermission)

	updated, err := service.AttachCover(ctx, author, created.ID, "articles/1/cover")
	require.NoError(t, err)
	assert.Equal(t, "articles/1/cover", updated.CoverImageKey)
}
