package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/apiserver/internal/services"
)

// FeedHandler serves the combined article/newsletter feed.
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler constructs a handler with the provided dependencies.
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// FeedRouter registers feed routes on the given router.
func FeedRouter(r chi.Router, handler *FeedHandler) {
	r.Get("/", handler.CombinedFeed)
}

// CombinedFeed returns the newest articles and newsletters visible to
// the actor side by side, with uncapped totals.
func (h *FeedHandler) CombinedFeed(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	feed, err := h.feedService.Combined(r.Context(), actor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build feed")
		return
	}

	writeJSON(w, http.StatusOK, feed)
}
