package chat

// Request carries one user query against a conversation session.
type Request struct {
	Text      string `json:"text"`
	Context   string `json:"context"`
	SessionID string `json:"session_id"`
}

// Response is the unary chat answer.
type Response struct {
	Success         bool     `json:"success"`
	Response        string   `json:"response"`
	OutOfScope      bool     `json:"out_of_scope"`
	MatchedKeywords []string `json:"matched_keywords"`
	Confidence      float64  `json:"confidence"`
	LatencyMs       int64    `json:"latency_ms"`
}
