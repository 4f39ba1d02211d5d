package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/apiserver/internal/services"
	"github.com/newswire/apiserver/types"
)

// PublisherHandler provides HTTP handlers for publishers.
type PublisherHandler struct {
	publisherService *services.PublisherService
}

// NewPublisherHandler constructs a handler with the provided dependencies.
func NewPublisherHandler(publisherService *services.PublisherService) *PublisherHandler {
	return &PublisherHandler{publisherService: publisherService}
}

// PublisherRouter registers publisher routes on the given router. All
// routes assume RequireAuth and RequireActor already ran.
func PublisherRouter(r chi.Router, handler *PublisherHandler) {
	r.Get("/", handler.ListPublishers)
	r.Post("/", handler.CreatePublisher)
	r.Get("/{publisherID}", handler.GetPublisher)
}

// ListPublishers returns a page of publishers.
func (h *PublisherHandler) ListPublishers(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.publisherService.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list publishers")
		return
	}

	writeJSON(w, http.StatusOK, listResponse(r, total, page, limit, items))
}

// CreatePublisher registers a new publisher.
func (h *PublisherHandler) CreatePublisher(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PublisherCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.publisherService.Create(r.Context(), actor, types.Publisher{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create publisher")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetPublisher returns a single publisher.
func (h *PublisherHandler) GetPublisher(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "publisherID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid publisher id")
		return
	}

	publisher, err := h.publisherService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to fetch publisher")
		return
	}

	writeJSON(w, http.StatusOK, publisher)
}

// PublisherCreateRequest represents the publisher creation payload.
type PublisherCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
