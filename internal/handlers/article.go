package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/apiserver/internal/services"
	"github.com/newswire/apiserver/internal/storage"
	"github.com/newswire/apiserver/types"
)

const (
	maxImageMemory = 8 << 20
	maxImageBytes  = 16 << 20
	formFieldImage = "image"
)

// ArticleHandler provides HTTP handlers for articles.
type ArticleHandler struct {
	articleService  *services.ArticleService
	feedService     *services.FeedService
	approvalService *services.ApprovalService
	storage         *storage.Storage
}

// NewArticleHandler constructs a handler with the provided dependencies.
func NewArticleHandler(
	articleService *services.ArticleService,
	feedService *services.FeedService,
	approvalService *services.ApprovalService,
	store *storage.Storage,
) *ArticleHandler {
	return &ArticleHandler{
		articleService:  articleService,
		feedService:     feedService,
		approvalService: approvalService,
		storage:         store,
	}
}

// ArticleRouter registers article routes on the given router. All
// routes assume RequireAuth and RequireActor already ran.
func ArticleRouter(r chi.Router, handler *ArticleHandler) {
	r.Get("/", handler.ListArticles)
	r.Post("/", handler.CreateArticle)
	r.Route("/{articleID}", func(r chi.Router) {
		r.Get("/", handler.GetArticle)
		r.Post("/approve", handler.ApproveArticle)
		r.Post("/reject", handler.RejectArticle)
		r.Put("/image", handler.UploadCoverImage)
		r.Get("/image", handler.GetCoverImage)
	})
}

// ListArticles returns the actor's article feed, newest first.
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.feedService.ListArticles(r.Context(), actor, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list articles")
		return
	}

	writeJSON(w, http.StatusOK, listResponse(r, total, page, limit, items))
}

// CreateArticle submits a new article for approval.
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ArticleCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.articleService.Create(r.Context(), actor, types.Article{
		Title:       req.Title,
		Body:        req.Body,
		PublisherID: req.PublisherID,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create article")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetArticle returns a single article visible to the actor.
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseArticleID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to fetch article")
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// ApproveArticle marks the article approved and triggers notifications.
func (h *ArticleHandler) ApproveArticle(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseArticleID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	approved, err := h.approvalService.ApproveArticle(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to approve article")
		return
	}

	writeJSON(w, http.StatusOK, approved)
}

// RejectArticle marks the article rejected.
func (h *ArticleHandler) RejectArticle(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseArticleID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rejected, err := h.approvalService.RejectArticle(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to reject article")
		return
	}

	writeJSON(w, http.StatusOK, rejected)
}

// UploadCoverImage stores the article's cover image.
func (h *ArticleHandler) UploadCoverImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusNotImplemented, "object storage is not configured")
		return
	}

	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseArticleID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxImageMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formFieldImage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		writeError(w, http.StatusBadRequest, "uploaded image too large")
		return
	}

	key := fmt.Sprintf("articles/%d/cover", id)
	contentType := header.Header.Get("Content-Type")
	if err := h.storage.Put(r.Context(), key, file, header.Size, contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	article, err := h.articleService.AttachCover(r.Context(), actor, id, key)
	if err != nil {
		writeServiceError(w, err, "failed to attach cover image")
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// GetCoverImage streams the article's cover image.
func (h *ArticleHandler) GetCoverImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusNotImplemented, "object storage is not configured")
		return
	}

	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseArticleID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to fetch article")
		return
	}
	if article.CoverImageKey == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	object, err := h.storage.Get(r.Context(), article.CoverImageKey)
	if err != nil {
		if storage.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read image")
		return
	}
	defer object.Close()

	// Sniff the content type from the leading bytes before streaming.
	head := make([]byte, 512)
	n, err := io.ReadFull(object, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		writeError(w, http.StatusInternalServerError, "failed to read image")
		return
	}
	head = head[:n]

	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(head)
	_, _ = io.Copy(w, object)
}

// ArticleCreateRequest represents the article submission payload.
type ArticleCreateRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	PublisherID *int   `json:"publisher_id,omitempty"`
}

func parseArticleID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "articleID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid article id")
	}
	return id, nil
}
