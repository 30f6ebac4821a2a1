// Package chat implements the request orchestration layer: scope check,
// session history, prompt assembly, admission-gated generation and the two
// response protocols.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/civisense/natlas-backend/internal/gate"
	chatmodel "github.com/civisense/natlas-backend/internal/model/chat"
	"github.com/civisense/natlas-backend/internal/prompt"
	"github.com/civisense/natlas-backend/internal/scope"
	"github.com/civisense/natlas-backend/internal/session"
	"github.com/civisense/natlas-backend/internal/service/ai"
)

// Error kinds surfaced to the transport boundary. Handlers map them to
// status codes; no transport concern lives in this package.
var (
	ErrSessionStore = errors.New("session store failure")
	ErrGeneration   = errors.New("generation failure")
)

// internalErrorMessage is the generic reply used on the streaming path when
// the exchange fails after events have already been emitted.
const internalErrorMessage = "Sorry, something went wrong while answering. Please try again."

// tokenBuffer bounds the producer/consumer channel between token production
// and event emission. The producer blocks when the consumer lags; tokens are
// never dropped.
const tokenBuffer = 32

// Config carries the orchestration knobs.
type Config struct {
	SessionTTL      time.Duration
	MaxHistoryTurns int
}

// Orchestrator composes classifier, session store, prompt assembler,
// admission gate and generation backend per incoming request. All
// collaborators are injected at construction time.
type Orchestrator struct {
	classifier *scope.Classifier
	assembler  *prompt.Assembler
	registry   scope.Registry
	store      session.Store
	gate       *gate.Gate
	generator  ai.Generator
	cfg        Config
}

// NewOrchestrator wires the orchestration core.
func NewOrchestrator(registry scope.Registry, store session.Store, g *gate.Gate, generator ai.Generator, cfg Config) *Orchestrator {
	return &Orchestrator{
		classifier: scope.NewClassifier(registry),
		assembler:  prompt.NewAssembler(registry),
		registry:   registry,
		store:      store,
		gate:       g,
		generator:  generator,
		cfg:        cfg,
	}
}

// Ask runs one unary exchange. Out-of-scope queries short-circuit without
// touching the session store or the admission gate.
func (o *Orchestrator) Ask(ctx context.Context, req chatmodel.Request) (chatmodel.Response, error) {
	start := time.Now()
	category := o.registry.Resolve(req.Context)

	result := o.classifier.Classify(req.Text)
	if !result.InScope {
		return chatmodel.Response{
			Success:         true,
			Response:        scope.OutOfScopeMessage,
			OutOfScope:      true,
			MatchedKeywords: []string{},
			LatencyMs:       elapsedMs(start),
		}, nil
	}

	turns, err := o.store.Load(ctx, req.SessionID)
	if err != nil {
		return chatmodel.Response{}, fmt.Errorf("%w: %v", ErrSessionStore, err)
	}
	turns = append(turns, chatmodel.Turn{Role: chatmodel.RoleUser, Content: req.Text})

	promptText := o.assembler.Assemble(turns, category.Name)

	raw, err := o.generate(ctx, promptText)
	if err != nil {
		return chatmodel.Response{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	reply := prompt.ExtractReply(raw)

	turns = append(turns, chatmodel.Turn{Role: chatmodel.RoleAssistant, Content: reply})
	if err := o.store.Save(ctx, req.SessionID, o.trimHistory(turns), o.cfg.SessionTTL); err != nil {
		return chatmodel.Response{}, fmt.Errorf("%w: %v", ErrSessionStore, err)
	}

	return chatmodel.Response{
		Success:         true,
		Response:        reply,
		MatchedKeywords: result.MatchedTags,
		Confidence:      result.Confidence,
		LatencyMs:       elapsedMs(start),
	}, nil
}

// generate holds an admission slot for exactly the duration of one backend
// call. The slot is released on every exit path.
func (o *Orchestrator) generate(ctx context.Context, promptText string) (string, error) {
	if err := o.gate.Acquire(ctx); err != nil {
		return "", err
	}
	defer o.gate.Release()
	return o.generator.Generate(ctx, promptText)
}

// Stream runs one streaming exchange, returning the event sequence as a
// channel. The channel is closed after the terminal done event. When ctx is
// cancelled mid-stream, emission stops and the admission slot is released at
// the next safe point; the backend call itself may run to completion.
func (o *Orchestrator) Stream(ctx context.Context, req chatmodel.Request) <-chan Event {
	events := make(chan Event)
	go o.streamExchange(ctx, req, events)
	return events
}

func (o *Orchestrator) streamExchange(ctx context.Context, req chatmodel.Request, events chan<- Event) {
	defer close(events)
	start := time.Now()

	if !emit(ctx, events, Event{Type: EventMeta}) {
		return
	}

	result := o.classifier.Classify(req.Text)
	if !result.InScope {
		emit(ctx, events, Event{Type: EventDone, Response: scope.OutOfScopeMessage, LatencyMs: elapsedMs(start)})
		return
	}

	category := o.registry.Resolve(req.Context)

	turns, err := o.store.Load(ctx, req.SessionID)
	if err != nil {
		log.Printf("[orchestrator] session load failed for session=%s: %v", req.SessionID, err)
		emit(ctx, events, Event{Type: EventDone, Response: internalErrorMessage, LatencyMs: elapsedMs(start)})
		return
	}
	turns = append(turns, chatmodel.Turn{Role: chatmodel.RoleUser, Content: req.Text})

	promptText := o.assembler.Assemble(turns, category.Name)

	reply, err := o.streamReply(ctx, promptText, events)
	if err != nil {
		if ctx.Err() != nil {
			// Caller went away; nobody is listening for a done event.
			log.Printf("[orchestrator] stream abandoned for session=%s: %v", req.SessionID, ctx.Err())
			return
		}
		log.Printf("[orchestrator] streaming generation failed for session=%s: %v", req.SessionID, err)
		emit(ctx, events, Event{Type: EventDone, Response: internalErrorMessage, LatencyMs: elapsedMs(start)})
		return
	}

	turns = append(turns, chatmodel.Turn{Role: chatmodel.RoleAssistant, Content: reply})
	if err := o.store.Save(ctx, req.SessionID, o.trimHistory(turns), o.cfg.SessionTTL); err != nil {
		log.Printf("[orchestrator] session save failed for session=%s: %v", req.SessionID, err)
		emit(ctx, events, Event{Type: EventDone, Response: internalErrorMessage, LatencyMs: elapsedMs(start)})
		return
	}

	emit(ctx, events, Event{Type: EventDone, LatencyMs: elapsedMs(start)})
}

// streamReply drives one admission-gated streaming generation. A dedicated
// goroutine produces tokens into a bounded channel while this goroutine
// forwards them as events, so slow transports apply backpressure to the
// producer instead of dropping or reordering tokens. The slot is held until
// the token stream is drained.
func (o *Orchestrator) streamReply(ctx context.Context, promptText string, events chan<- Event) (string, error) {
	if err := o.gate.Acquire(ctx); err != nil {
		return "", err
	}
	defer o.gate.Release()

	stream, err := o.generator.Stream(ctx, promptText)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	tokens := make(chan string, tokenBuffer)
	streamErr := make(chan error, 1)
	go func() {
		defer close(tokens)
		for {
			token, recvErr := stream.Recv()
			if errors.Is(recvErr, io.EOF) {
				return
			}
			if recvErr != nil {
				streamErr <- recvErr
				return
			}
			select {
			case tokens <- token:
			case <-ctx.Done():
				return
			}
		}
	}()

	var reply strings.Builder
	for token := range tokens {
		reply.WriteString(token)
		if !emit(ctx, events, Event{Type: EventToken, Text: token}) {
			return "", ctx.Err()
		}
	}

	select {
	case recvErr := <-streamErr:
		return "", recvErr
	default:
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return prompt.ExtractReply(reply.String()), nil
}

// trimHistory caps the retained turn window, dropping the oldest turns
// first. A zero limit keeps everything.
func (o *Orchestrator) trimHistory(turns []chatmodel.Turn) []chatmodel.Turn {
	limit := o.cfg.MaxHistoryTurns
	if limit <= 0 || len(turns) <= limit {
		return turns
	}
	return turns[len(turns)-limit:]
}

func emit(ctx context.Context, events chan<- Event, event Event) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
