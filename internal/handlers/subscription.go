package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/apiserver/internal/services"
)

// SubscriptionHandler manages a reader's subscription index.
type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

// NewSubscriptionHandler constructs a handler with the provided dependencies.
func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// SubscriptionRouter registers subscription routes on the given
// router. All routes assume RequireAuth and RequireActor already ran.
func SubscriptionRouter(r chi.Router, handler *SubscriptionHandler) {
	r.Get("/", handler.ListSubscriptions)
	r.Post("/", handler.Subscribe)
	r.Delete("/", handler.Unsubscribe)
}

// ListSubscriptions returns the reader's subscribed publishers and
// followed journalists.
func (h *SubscriptionHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	subs, err := h.subscriptionService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err, "failed to list subscriptions")
		return
	}

	writeJSON(w, http.StatusOK, subs)
}

// Subscribe adds a publisher subscription or journalist follow.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err = h.subscriptionService.Subscribe(r.Context(), actor, services.SubscriptionTarget{
		PublisherID:  req.PublisherID,
		JournalistID: req.JournalistID,
	})
	if err != nil {
		writeServiceError(w, err, "failed to subscribe")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

// Unsubscribe removes a publisher subscription or journalist follow.
func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err = h.subscriptionService.Unsubscribe(r.Context(), actor, services.SubscriptionTarget{
		PublisherID:  req.PublisherID,
		JournalistID: req.JournalistID,
	})
	if err != nil {
		writeServiceError(w, err, "failed to unsubscribe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubscriptionRequest names the target of a subscribe or unsubscribe.
// Exactly one of the fields must be set.
type SubscriptionRequest struct {
	PublisherID  *int `json:"publisher_id,omitempty"`
	JournalistID *int `json:"journalist_id,omitempty"`
}
