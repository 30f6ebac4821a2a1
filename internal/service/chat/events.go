package chat

// EventType discriminates streaming protocol frames.
type EventType string

const (
	EventMeta  EventType = "meta"
	EventToken EventType = "token"
	EventDone  EventType = "done"
)

// Event is one frame of the streaming response protocol. Every stream emits
// exactly one meta event first and exactly one done event last; token events
// carry one decoded fragment each, in generation order.
type Event struct {
	Type      EventType `json:"type"`
	Text      string    `json:"text,omitempty"`
	Response  string    `json:"response,omitempty"`
	LatencyMs int64     `json:"latency_ms,omitempty"`
}
