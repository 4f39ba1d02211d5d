package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/apiserver/internal/services"
	"github.com/newswire/apiserver/types"
)

// NewsletterHandler provides HTTP handlers for newsletters.
type NewsletterHandler struct {
	newsletterService *services.NewsletterService
	feedService       *services.FeedService
	approvalService   *services.ApprovalService
}

// NewNewsletterHandler constructs a handler with the provided dependencies.
func NewNewsletterHandler(
	newsletterService *services.NewsletterService,
	feedService *services.FeedService,
	approvalService *services.ApprovalService,
) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
		feedService:       feedService,
		approvalService:   approvalService,
	}
}

// NewsletterRouter registers newsletter routes on the given router.
// All routes assume RequireAuth and RequireActor already ran.
func NewsletterRouter(r chi.Router, handler *NewsletterHandler) {
	r.Get("/", handler.ListNewsletters)
	r.Post("/", handler.CreateNewsletter)
	r.Route("/{newsletterID}", func(r chi.Router) {
		r.Get("/", handler.GetNewsletter)
		r.Post("/approve", handler.ApproveNewsletter)
		r.Post("/reject", handler.RejectNewsletter)
	})
}

// ListNewsletters returns the actor's newsletter feed, newest first.
func (h *NewsletterHandler) ListNewsletters(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.feedService.ListNewsletters(r.Context(), actor, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list newsletters")
		return
	}

	writeJSON(w, http.StatusOK, listResponse(r, total, page, limit, items))
}

// CreateNewsletter submits a new newsletter for approval.
func (h *NewsletterHandler) CreateNewsletter(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req NewsletterCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.newsletterService.Create(r.Context(), actor, types.Newsletter{
		Subject:     req.Subject,
		Content:     req.Content,
		PublisherID: req.PublisherID,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create newsletter")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetNewsletter returns a single newsletter visible to the actor.
func (h *NewsletterHandler) GetNewsletter(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseNewsletterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	newsletter, err := h.newsletterService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to fetch newsletter")
		return
	}

	writeJSON(w, http.StatusOK, newsletter)
}

// ApproveNewsletter marks the newsletter approved and triggers notifications.
func (h *NewsletterHandler) ApproveNewsletter(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseNewsletterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	approved, err := h.approvalService.ApproveNewsletter(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to approve newsletter")
		return
	}

	writeJSON(w, http.StatusOK, approved)
}

// RejectNewsletter marks the newsletter rejected.
func (h *NewsletterHandler) RejectNewsletter(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseNewsletterID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rejected, err := h.approvalService.RejectNewsletter(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to reject newsletter")
		return
	}

	writeJSON(w, http.StatusOK, rejected)
}

// NewsletterCreateRequest represents the newsletter submission payload.
type NewsletterCreateRequest struct {
	Subject     string `json:"subject"`
	Content     string `json:"content"`
	PublisherID *int   `json:"publisher_id,omitempty"`
}

func parseNewsletterID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "newsletterID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid newsletter id")
	}
	return id, nil
}
