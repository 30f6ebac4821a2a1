package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/civisense/natlas-backend/internal/config"
	"github.com/civisense/natlas-backend/internal/gate"
	"github.com/civisense/natlas-backend/internal/handler"
	"github.com/civisense/natlas-backend/internal/scope"
	"github.com/civisense/natlas-backend/internal/session"
	"github.com/civisense/natlas-backend/internal/service/ai"
	chatservice "github.com/civisense/natlas-backend/internal/service/chat"
	speechservice "github.com/civisense/natlas-backend/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	registry := scope.NewMemoryRegistry(scope.Seed(), scope.DefaultCategory)

	// Session store: Redis when reachable, in-memory fallback otherwise.
	var store session.Store
	redisStore, err := session.NewRedisStore(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("warning: redis unavailable at %s: %v", cfg.Redis.Addr(), err)
		log.Println("falling back to in-memory session store; histories will not survive restarts")
		store = session.NewMemoryStore()
	} else {
		defer redisStore.Close()
		store = redisStore
		log.Printf("session store connected to redis at %s", cfg.Redis.Addr())
	}

	admission := gate.New(cfg.Chat.MaxConcurrentGenerations)

	var orchestrator *chatservice.Orchestrator
	if cfg.AI.Enabled() {
		generator, err := ai.NewArkGenerator(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize generation backend: %v", err)
			log.Println("continuing without chat functionality")
		} else {
			orchestrator = chatservice.NewOrchestrator(registry, store, admission, generator, chatservice.Config{
				SessionTTL:      cfg.Chat.SessionTTL,
				MaxHistoryTurns: cfg.Chat.MaxHistoryTurns,
			})
			log.Printf("generation backend initialized, max %d concurrent generations", cfg.Chat.MaxConcurrentGenerations)
		}
	} else {
		log.Println("generation backend credentials not configured, chat endpoints disabled")
	}

	var transcriber speechservice.Transcriber
	if cfg.Speech.Enabled {
		transcriber = speechservice.NewHTTPTranscriber(cfg.Speech.Endpoint, cfg.Speech.Timeout)
		log.Printf("transcription backend configured at %s", cfg.Speech.Endpoint)
	} else {
		log.Println("STT_ENDPOINT not configured, transcription endpoint disabled")
	}

	router := handler.NewRouter(orchestrator, store, transcriber)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("civic assistant backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
