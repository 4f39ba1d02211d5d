package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/apiserver/internal/services"
)

// JournalistHandler lists journalist accounts for readers to follow.
type JournalistHandler struct {
	userService *services.UserService
}

// NewJournalistHandler constructs a handler with the provided dependencies.
func NewJournalistHandler(userService *services.UserService) *JournalistHandler {
	return &JournalistHandler{userService: userService}
}

// JournalistRouter registers journalist routes on the given router.
func JournalistRouter(r chi.Router, handler *JournalistHandler) {
	r.Get("/", handler.ListJournalists)
}

// ListJournalists returns a page of journalist accounts.
func (h *JournalistHandler) ListJournalists(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.userService.ListJournalists(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list journalists")
		return
	}

	writeJSON(w, http.StatusOK, listResponse(r, total, page, limit, items))
}
