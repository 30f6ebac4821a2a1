package prompt

import (
	"strings"

	"github.com/civisense/natlas-backend/internal/model/chat"
	"github.com/civisense/natlas-backend/internal/scope"
)

const (
	systemMarker    = "<|system|>"
	assistantMarker = "<|assistant|>"
)

// Assembler renders a turn history into the single prompt string the
// generation backend consumes. Pure and deterministic.
type Assembler struct {
	registry scope.Registry
}

// NewAssembler creates an assembler over the category registry.
func NewAssembler(registry scope.Registry) *Assembler {
	return &Assembler{registry: registry}
}

// Assemble concatenates the category preamble, each turn as a role-tagged
// line in list order, and the trailing assistant marker. An unrecognized
// context falls back to the default category's preamble.
func (a *Assembler) Assemble(turns []chat.Turn, context string) string {
	category := a.registry.Resolve(context)

	var b strings.Builder
	b.WriteString(systemMarker)
	b.WriteString(category.Preamble)
	b.WriteString("\n")
	for _, turn := range turns {
		b.WriteString("<|")
		b.WriteString(string(turn.Role))
		b.WriteString("|>")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	b.WriteString(assistantMarker)
	return b.String()
}

// ExtractReply returns the portion of the backend's raw output that follows
// the final assistant marker, trimmed. Output without the marker is returned
// whole, trimmed.
func ExtractReply(raw string) string {
	if idx := strings.LastIndex(raw, assistantMarker); idx >= 0 {
		raw = raw[idx+len(assistantMarker):]
	}
	return strings.TrimSpace(raw)
}
