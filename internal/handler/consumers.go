package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/middleware"
	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/internal/store"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
)

// ConsumerHandler handles consumer profile endpoints.
type ConsumerHandler struct {
	documents *store.DocumentStore
	logger    *logger.Logger
}

// NewConsumerHandler creates a new consumer handler.
func NewConsumerHandler(documents *store.DocumentStore, log *logger.Logger) *ConsumerHandler {
	return &ConsumerHandler{
		documents: documents,
		logger:    log,
	}
}

// Get handles GET /api/v1/consumers/:id. Consumers can only read their own
// record.
func (h *ConsumerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing consumer id")
		return
	}
	if identity := middleware.GetIdentity(r.Context()); identity.ConsumerID != id {
		writeError(w, http.StatusForbidden, "cannot read another consumer's profile")
		return
	}

	consumer, err := h.documents.GetConsumer(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "consumer not found")
			return
		}
		h.logger.Error("failed to get consumer", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get consumer")
		return
	}

	writeJSON(w, http.StatusOK, consumer)
}

// Upsert handles PUT /api/v1/consumers/:id
func (h *ConsumerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing consumer id")
		return
	}

	identity := middleware.GetIdentity(r.Context())
	if identity.ConsumerID != id {
		writeError(w, http.StatusForbidden, "cannot modify another consumer's profile")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	consumer := &model.Consumer{
		ID:    id,
		Email: identity.Email,
		Role:  middleware.GetRole(r.Context()),
		Name:  req.Name,
	}
	if existing, err := h.documents.GetConsumer(r.Context(), id); err == nil {
		consumer.CreatedAt = existing.CreatedAt
	}

	if err := h.documents.PutConsumer(r.Context(), consumer); err != nil {
		h.logger.Error("failed to save consumer", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save consumer")
		return
	}

	writeJSON(w, http.StatusOK, consumer)
}
