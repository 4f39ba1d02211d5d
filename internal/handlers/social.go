package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/newswire/apiserver/internal/services"
	"github.com/newswire/apiserver/types"
)

// SocialHandler manages an editor's social platform connection.
type SocialHandler struct {
	connectionService *services.ConnectionService
}

// NewSocialHandler constructs a handler with the provided dependencies.
func NewSocialHandler(connectionService *services.ConnectionService) *SocialHandler {
	return &SocialHandler{connectionService: connectionService}
}

// SocialRouter registers social connection routes on the given router.
// All routes assume RequireAuth and RequireActor already ran.
func SocialRouter(r chi.Router, handler *SocialHandler) {
	r.Put("/connection", handler.Connect)
	r.Delete("/connection", handler.Disconnect)
}

// Connect stores or replaces the actor's platform tokens.
func (h *SocialHandler) Connect(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	conn, err := h.connectionService.Connect(r.Context(), actor, types.SocialConnection{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    req.TokenType,
		Expiry:       req.Expiry,
	})
	if err != nil {
		writeServiceError(w, err, "failed to store connection")
		return
	}

	writeJSON(w, http.StatusOK, conn)
}

// Disconnect removes the actor's platform connection.
func (h *SocialHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.connectionService.Disconnect(r.Context(), actor); err != nil {
		writeServiceError(w, err, "failed to remove connection")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConnectionRequest carries the OAuth2 tokens of a platform account.
type ConnectionRequest struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}
