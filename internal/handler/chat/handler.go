package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	chatmodel "github.com/civisense/natlas-backend/internal/model/chat"
	"github.com/civisense/natlas-backend/internal/session"
	chatservice "github.com/civisense/natlas-backend/internal/service/chat"
	"github.com/civisense/natlas-backend/pkg/utils"
)

// Handler serves the unary chat and session endpoints.
type Handler struct {
	orchestrator *chatservice.Orchestrator
	store        session.Store
}

// New creates the chat handler. The orchestrator may be nil when the
// generation backend is not configured; chat requests then answer 503.
func New(orchestrator *chatservice.Orchestrator, store session.Store) *Handler {
	return &Handler{orchestrator: orchestrator, store: store}
}

// RegisterRoutes mounts the chat and session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/session", h.handleCreateSession)
	r.Delete("/session/{sessionID}", h.handleDeleteSession)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.orchestrator == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "generation backend unavailable")
		return
	}

	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	response, err := h.orchestrator.Ask(r.Context(), req)
	if err != nil {
		log.Printf("[chat] request failed for session=%s: %v", req.SessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "internal service error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"session_id": uuid.NewString(),
	})
}

// handleDeleteSession clears a session history. Deletion is idempotent and
// always reports success; store failures are logged only.
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.store.Delete(r.Context(), sessionID); err != nil {
		log.Printf("[chat] session delete failed for session=%s: %v", sessionID, err)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeChatRequest parses and validates the shared chat request payload.
// It writes the error response itself when validation fails.
func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatmodel.Request, bool) {
	var req chatmodel.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return chatmodel.Request{}, false
	}

	if strings.TrimSpace(req.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return chatmodel.Request{}, false
	}
	if strings.TrimSpace(req.SessionID) == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id is required")
		return chatmodel.Request{}, false
	}

	return req, true
}
