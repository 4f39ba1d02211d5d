package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newswire/apiserver/internal/services"
	"github.com/newswire/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/articles/", nil)
	page, limit, offset, err := parsePagination(r)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
	assert.Zero(t, offset)

	r = httptest.NewRequest(http.MethodGet, "/articles/?page=3&page_size=50", nil)
	page, limit, offset, err = parsePagination(r)
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 100, offset)

	// page_size is clamped, never rejected.
	r = httptest.NewRequest(http.MethodGet, "/articles/?page_size=5000", nil)
	_, limit, _, err = parsePagination(r)
	require.NoError(t, err)
	assert.Equal(t, maxLimit, limit)

	for _, q := range []string{"page=0", "page=x", "page_size=0", "page_size=x"} {
		r = httptest.NewRequest(http.MethodGet, "/articles/?"+q, nil)
		_, _, _, err = parsePagination(r)
		assert.Error(t, err, q)
	}
}

func TestListResponseEnvelope(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/articles/?page=2&page_size=10", nil)

	resp := listResponse(r, 35, 2, 10, []string{"a"})
	assert.Equal(t, 35, resp.Count)
	require.NotNil(t, resp.Next)
	assert.Contains(t, *resp.Next, "page=3")
	require.NotNil(t, resp.Previous)
	assert.Contains(t, *resp.Previous, "page=1")

	// First page has no previous, last page no next.
	r = httptest.NewRequest(http.MethodGet, "/articles/", nil)
	resp = listResponse(r, 15, 1, 20, nil)
	assert.Nil(t, resp.Next)
	assert.Nil(t, resp.Previous)
}

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: bad input", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: not yours", services.ErrPermission), http.StatusForbidden},
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrInvalidState, http.StatusConflict},
		{services.ErrCredentials, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tc.err, "fallback")
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Contains(t, rec.Body.String(), `"error"`)
	}
}
