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

// ContractorHandler handles contractor profile endpoints.
type ContractorHandler struct {
	documents *store.DocumentStore
	logger    *logger.Logger
}

// NewContractorHandler creates a new contractor handler.
func NewContractorHandler(documents *store.DocumentStore, log *logger.Logger) *ContractorHandler {
	return &ContractorHandler{
		documents: documents,
		logger:    log,
	}
}

// Get handles GET /api/v1/contractors/:slug. The profile is public; it
// backs white-labeled quote links.
func (h *ContractorHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := middleware.ValidateSlug(slug); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contractor, err := h.documents.GetContractor(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "contractor not found")
			return
		}
		h.logger.Error("failed to get contractor", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get contractor")
		return
	}

	writeJSON(w, http.StatusOK, contractor)
}

// Upsert handles PUT /api/v1/contractors/:slug
func (h *ContractorHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := middleware.ValidateSlug(slug); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpsertContractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	contractor := &model.Contractor{
		Slug:    slug,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Tagline: req.Tagline,
		LogoURL: req.LogoURL,
	}
	if existing, err := h.documents.GetContractor(r.Context(), slug); err == nil {
		contractor.CreatedAt = existing.CreatedAt
	}

	if err := h.documents.PutContractor(r.Context(), contractor); err != nil {
		h.logger.Error("failed to save contractor", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save contractor")
		return
	}

	writeJSON(w, http.StatusOK, contractor)
}
