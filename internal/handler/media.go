package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quotewise-ai/quoting-platform/internal/content"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
)

// MediaHandler serves stored images; durable image URLs resolve here.
type MediaHandler struct {
	content *content.Store
	logger  *logger.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(contentStore *content.Store, log *logger.Logger) *MediaHandler {
	return &MediaHandler{
		content: contentStore,
		logger:  log,
	}
}

// Get handles GET /media/:name
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing image name")
		return
	}

	data, err := h.content.Fetch(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
