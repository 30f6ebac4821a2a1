package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/civisense/natlas-backend/internal/handler/chat"
	speechhandler "github.com/civisense/natlas-backend/internal/handler/speech"
	streamhandler "github.com/civisense/natlas-backend/internal/handler/stream"
	middlewarePkg "github.com/civisense/natlas-backend/internal/middleware"
	"github.com/civisense/natlas-backend/internal/session"
	chatservice "github.com/civisense/natlas-backend/internal/service/chat"
	speechservice "github.com/civisense/natlas-backend/internal/service/speech"
	"github.com/civisense/natlas-backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. The orchestrator and
// transcriber may be nil when their collaborators are not configured; the
// affected endpoints then answer 503.
func NewRouter(orchestrator *chatservice.Orchestrator, store session.Store, transcriber speechservice.Transcriber) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chathandler.New(orchestrator, store)
	speechHandler := speechhandler.New(transcriber)

	var streamHandler *streamhandler.Handler
	if orchestrator != nil {
		streamHandler = streamhandler.New(orchestrator)
	}

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		speechHandler.RegisterRoutes(api)

		if streamHandler != nil {
			streamHandler.RegisterRoutes(api)
		} else {
			api.Post("/chat/stream", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "generation backend unavailable")
			})
			api.Get("/chat/ws", func(w http.ResponseWriter, _ *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "generation backend unavailable")
			})
		}

		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"status":        "ok",
				"generation":    orchestrator != nil,
				"transcription": transcriber != nil,
			})
		})
	})

	return r
}
