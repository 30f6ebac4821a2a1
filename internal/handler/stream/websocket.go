package stream

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	chatmodel "github.com/civisense/natlas-backend/internal/model/chat"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWebSocket serves the streaming protocol over a websocket: the client
// sends one chat request as a JSON text frame and receives the same
// meta/token/done events, one JSON frame per event.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[stream] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req chatmodel.Request
	if err := conn.ReadJSON(&req); err != nil {
		writeClose(conn, websocket.CloseInvalidFramePayloadData, "invalid request")
		return
	}
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.SessionID) == "" {
		writeClose(conn, websocket.CloseInvalidFramePayloadData, "text and session_id are required")
		return
	}

	for event := range h.orchestrator.Stream(r.Context(), req) {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("[stream] websocket write failed for session=%s: %v", req.SessionID, err)
			return
		}
	}

	writeClose(conn, websocket.CloseNormalClosure, "")
}

func writeClose(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}
