// Package ai defines the boundary to the text-generation collaborator. The
// engine is treated as an opaque, slow, blocking callee; the orchestration
// layer only sees prompts in and decoded text (or token fragments) out.
package ai

import "context"

// TokenStream yields decoded token fragments in generation order. Recv
// returns io.EOF once generation completes. Close releases the stream and
// is safe to call after EOF.
type TokenStream interface {
	Recv() (string, error)
	Close()
}

// Generator is the generation backend contract.
type Generator interface {
	// Generate runs one blocking generation and returns the full decoded text.
	Generate(ctx context.Context, prompt string) (string, error)
	// Stream starts a generation whose output arrives as a token stream.
	Stream(ctx context.Context, prompt string) (TokenStream, error)
}
