package speech

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	speechservice "github.com/civisense/natlas-backend/internal/service/speech"
	"github.com/civisense/natlas-backend/pkg/utils"
)

// Handler serves audio transcription requests.
type Handler struct {
	transcriber speechservice.Transcriber
}

// New creates the speech handler. A nil transcriber answers 503.
func New(transcriber speechservice.Transcriber) *Handler {
	return &Handler{transcriber: transcriber}
}

// RegisterRoutes mounts the audio routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/audio/transcribe", h.handleTranscribe)
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if h.transcriber == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "transcription unavailable")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		log.Printf("[speech] transcription failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal service error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
}
