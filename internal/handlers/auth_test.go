package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/apiserver/internal/services"
	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users  map[int]types.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int]types.User{}, nextID: 1}
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id int, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	r.users[id] = user
	return nil
}

func (r *memUserRepo) ListJournalists(_ context.Context, offset, limit int) ([]types.User, int, error) {
	return nil, 0, nil
}

type memPublisherGetter struct{}

func (memPublisherGetter) Get(_ context.Context, _ int) (types.Publisher, error) {
	return types.Publisher{}, store.ErrNotFound
}

func newAuthTestServer(t *testing.T) (*httptest.Server, *services.UserService) {
	t.Helper()

	userService := services.NewUserService(newMemUserRepo(), memPublisherGetter{})

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, nil, "test-secret")
	})
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth("test-secret"))
		r.Use(RequireActor(userService))
		r.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
			actor, err := actorFromContext(req.Context())
			require.NoError(t, err)
			writeJSON(w, http.StatusOK, actor)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, userService
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeAuth(t *testing.T, resp *http.Response) AuthResponse {
	t.Helper()
	defer resp.Body.Close()
	var auth AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))
	return auth
}

func TestRegisterLoginMe(t *testing.T) {
	srv, _ := newAuthTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/register", RegisterRequest{
		Username: "anna",
		Email:    "anna@example.com",
		Name:     "Anna",
		Password: "hunter2hunter2",
		Role:     "journalist",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	auth := decodeAuth(t, resp)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "anna", auth.User.Username)
	assert.Equal(t, types.RoleJournalist, auth.User.Role)

	resp = postJSON(t, srv.URL+"/auth/login", LoginRequest{Username: "anna", Password: "hunter2hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	auth = decodeAuth(t, resp)
	require.NotEmpty(t, auth.Token)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var me types.User
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, auth.User.ID, me.ID)
	assert.Equal(t, "anna@example.com", me.Email)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	srv, _ := newAuthTestServer(t)

	cases := []RegisterRequest{
		{Username: "x", Email: "x@example.com", Password: "hunter2hunter2", Role: "overlord"},
		{Username: "", Email: "x@example.com", Password: "hunter2hunter2", Role: "reader"},
		{Username: "x", Email: "not-an-email", Password: "hunter2hunter2", Role: "reader"},
	}
	for _, req := range cases {
		resp := postJSON(t, srv.URL+"/auth/register", req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, _ := newAuthTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/register", RegisterRequest{
		Username: "anna",
		Email:    "anna@example.com",
		Password: "hunter2hunter2",
		Role:     "reader",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/auth/login", LoginRequest{Username: "anna", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/auth/login", LoginRequest{Username: "nobody", Password: "hunter2hunter2"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newAuthTestServer(t)

	resp, err := http.Get(srv.URL + "/whoami")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/whoami", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActorResolvedFromToken(t *testing.T) {
	srv, _ := newAuthTestServer(t)

	resp := postJSON(t, srv.URL+"/auth/register", RegisterRequest{
		Username: "ed",
		Email:    "ed@example.com",
		Password: "hunter2hunter2",
		Role:     "editor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	auth := decodeAuth(t, resp)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/whoami", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	whoResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer whoResp.Body.Close()
	require.Equal(t, http.StatusOK, whoResp.StatusCode)

	var actor types.User
	require.NoError(t, json.NewDecoder(whoResp.Body).Decode(&actor))
	assert.Equal(t, "ed", actor.Username)
	assert.Equal(t, types.RoleEditor, actor.Role)
}
