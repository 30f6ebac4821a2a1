package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/civisense/natlas-backend/internal/config"
)

// ArkGenerator implements Generator on top of an Ark chat model driven
// through an eino chain. Sampling parameters and the new-token budget come
// from configuration at construction time.
type ArkGenerator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArkGenerator creates the chat model and compiles the generation chain.
func NewArkGenerator(ctx context.Context, cfg config.AIConfig) (*ArkGenerator, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &ArkGenerator{chain: runnable}, nil
}

// Generate invokes the chain and returns the complete decoded text.
func (g *ArkGenerator) Generate(ctx context.Context, promptText string) (string, error) {
	response, err := g.chain.Invoke(ctx, map[string]any{"prompt": promptText})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return response.Content, nil
}

// Stream invokes the chain in streaming mode and adapts the reader to a
// TokenStream.
func (g *ArkGenerator) Stream(ctx context.Context, promptText string) (TokenStream, error) {
	stream, err := g.chain.Stream(ctx, map[string]any{"prompt": promptText})
	if err != nil {
		return nil, fmt.Errorf("failed to start generation stream: %w", err)
	}
	return &arkTokenStream{stream: stream}, nil
}

type arkTokenStream struct {
	stream *schema.StreamReader[*schema.Message]
}

// Recv returns the next non-empty token fragment. Empty chunks (tool-call
// frames, role-only deltas) are skipped.
func (s *arkTokenStream) Recv() (string, error) {
	for {
		chunk, err := s.stream.Recv()
		if err != nil {
			return "", err
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}
		return chunk.Content, nil
	}
}

func (s *arkTokenStream) Close() {
	s.stream.Close()
}
