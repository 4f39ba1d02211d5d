package services

import (
	"context"
	"testing"

	"github.com/newswire/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *fakePublisherRepo) {
	t.Helper()
	publishers := newFakePublisherRepo()
	return NewUserService(newFakeUserRepo(), publishers), publishers
}

func validParams() RegisterParams {
	return RegisterParams{
		Username: "anna",
		Email:    "anna@example.com",
		Name:     "Anna",
		Password: "hunter2hunter2",
		Role:     "journalist",
	}
}

func TestRegister(t *testing.T) {
	service, _ := newUserService(t)

	user, err := service.Register(context.Background(), validParams())
	require.NoError(t, err)
	assert.Equal(t, types.RoleJournalist, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newUserService(t)
	ctx := context.Background()

	missing := validParams()
	missing.Username = "  "
	_, err := service.Register(ctx, missing)
	assert.ErrorIs(t, err, ErrValidation)

	badEmail := validParams()
	badEmail.Email = "not-an-address"
	_, err = service.Register(ctx, badEmail)
	assert.ErrorIs(t, err, ErrValidation)

	badRole := validParams()
	badRole.Role = "admin"
	_, err = service.Register(ctx, badRole)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterAffiliationRules(t *testing.T) {
	service, publishers := newUserService(t)
	ctx := context.Background()

	publisher, err := publishers.Create(ctx, types.Publisher{Name: "The Daily Engine"})
	require.NoError(t, err)

	// Affiliation is an editor-only field.
	params := validParams()
	params.AffiliatedPublisherID = &publisher.ID
	_, err = service.Register(ctx, params)
	assert.ErrorIs(t, err, ErrValidation)

	// The publisher must exist.
	missing := 999
	editorParams := validParams()
	editorParams.Username = "ed"
	editorParams.Role = "editor"
	editorParams.AffiliatedPublisherID = &missing
	_, err = service.Register(ctx, editorParams)
	assert.ErrorIs(t, err, ErrValidation)

	editorParams.AffiliatedPublisherID = &publisher.ID
	editor, err := service.Register(ctx, editorParams)
	require.NoError(t, err)
	require.NotNil(t, editor.AffiliatedPublisherID)
	assert.Equal(t, publisher.ID, *editor.AffiliatedPublisherID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, _ := newUserService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, validParams())
	require.NoError(t, err)

	dup := validParams()
	dup.Email = "other@example.com"
	_, err = service.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	service, _ := newUserService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, validParams())
	require.NoError(t, err)

	user, err := service.Authenticate(ctx, "anna", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = service.Authenticate(ctx, "anna", "wrong")
	assert.ErrorIs(t, err, ErrCredentials)

	_, err = service.Authenticate(ctx, "nobody", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrCredentials)
}
