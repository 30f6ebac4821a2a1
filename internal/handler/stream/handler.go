package stream

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/civisense/natlas-backend/internal/model/chat"
	chatservice "github.com/civisense/natlas-backend/internal/service/chat"
	"github.com/civisense/natlas-backend/pkg/utils"
)

// Handler serves the streaming chat protocol over SSE and websocket.
type Handler struct {
	orchestrator *chatservice.Orchestrator
}

// New creates the stream handler.
func New(orchestrator *chatservice.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

// RegisterRoutes mounts the streaming routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/stream", h.handleStream)
	r.Get("/chat/ws", h.handleWebSocket)
}

// handleStream answers one chat request as a Server-Sent Events stream:
// one meta frame, zero or more token frames, one terminal done frame.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	utils.SetupSSEHeaders(w)

	for event := range h.orchestrator.Stream(r.Context(), req) {
		utils.SendSSEChunk(w, flusher, event)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (chatmodel.Request, bool) {
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
