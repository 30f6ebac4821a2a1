package stream_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	chatmodel "github.com/civisense/natlas-backend/internal/model/chat"
	chatservice "github.com/civisense/natlas-backend/internal/service/chat"
)

func TestWebSocketStreamsEvents(t *testing.T) {
	server := httptest.NewServer(newTestRouter([]string{"Pay", " at the bank."}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	defer conn.Close()

	err = conn.WriteJSON(chatmodel.Request{
		Text:      "vat payment",
		Context:   "FIRS",
		SessionID: "sid-ws",
	})
	if err != nil {
		t.Fatalf("write request err: %v", err)
	}

	var events []chatservice.Event
	for {
		var event chatservice.Event
		if err := conn.ReadJSON(&event); err != nil {
			break
		}
		events = append(events, event)
		if event.Type == chatservice.EventDone {
			break
		}
	}

	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %+v", events)
	}
	if events[0].Type != chatservice.EventMeta || events[len(events)-1].Type != chatservice.EventDone {
		t.Fatalf("unexpected event framing: %+v", events)
	}
	if events[1].Text != "Pay" || events[2].Text != " at the bank." {
		t.Fatalf("unexpected token events: %+v", events)
	}
}
