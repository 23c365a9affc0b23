package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/middleware"
	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/internal/store"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
)

// QuoteHandler handles quote endpoints.
type QuoteHandler struct {
	documents *store.DocumentStore
	messages  *store.MessageLog
	logger    *logger.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(documents *store.DocumentStore, messages *store.MessageLog, log *logger.Logger) *QuoteHandler {
	return &QuoteHandler{
		documents: documents,
		messages:  messages,
		logger:    log,
	}
}

// List handles GET /api/v1/quotes
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	quotes, err := h.documents.ListQuotesByOwner(r.Context(), identity)
	if err != nil {
		h.logger.Error("failed to list quotes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list quotes")
		return
	}
	if quotes == nil {
		quotes = []model.Quote{}
	}

	writeJSON(w, http.StatusOK, &model.ListQuotesResponse{
		Quotes: quotes,
		Total:  len(quotes),
	})
}

// Get handles GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.quote(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// Update handles PATCH /api/v1/quotes/:id
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.quote(w, r)
	if !ok {
		return
	}

	var req model.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Status values come from a fixed set but have no enforced ordering.
	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		quote.Status = *req.Status
	}
	if req.Issue != nil {
		quote.Issue = *req.Issue
	}
	if req.ContractorNote != nil {
		quote.ContractorNote = *req.ContractorNote
	}

	if err := h.documents.UpdateQuote(r.Context(), quote); err != nil {
		h.logger.Error("failed to update quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update quote")
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

// ListMessages handles GET /api/v1/quotes/:id/messages
func (h *QuoteHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.quote(w, r)
	if !ok {
		return
	}

	afterSequence := uint64(0)
	limit := 50

	if seq := r.URL.Query().Get("after_sequence"); seq != "" {
		if parsed, err := strconv.ParseUint(seq, 10, 64); err == nil {
			afterSequence = parsed
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	messages, lastSeq, hasMore, err := h.messages.List(r.Context(), quote.ID, afterSequence, limit)
	if err != nil {
		h.logger.Error("failed to list quote messages", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}

	writeJSON(w, http.StatusOK, &model.ListMessagesResponse{
		Messages:     messages,
		HasMore:      hasMore,
		LastSequence: lastSeq,
	})
}

// AppendMessage handles POST /api/v1/quotes/:id/messages
func (h *QuoteHandler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	quote, ok := h.quote(w, r)
	if !ok {
		return
	}

	var req model.AppendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Role != model.RoleUser && req.Role != model.RoleAssistant {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg := model.Message{
		Role:    req.Role,
		Content: req.Content,
	}
	seq, err := h.messages.Append(r.Context(), quote.ID, &msg)
	if err != nil {
		h.logger.Error("failed to append quote message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to append message")
		return
	}

	msg.QuoteID = quote.ID
	msg.Sequence = seq
	writeJSON(w, http.StatusCreated, &msg)
}

func (h *QuoteHandler) quote(w http.ResponseWriter, r *http.Request) (*model.Quote, bool) {
	quoteID := chi.URLParam(r, "id")
	if err := middleware.ValidateQuoteID(quoteID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	quote, err := h.documents.GetQuote(r.Context(), quoteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "quote not found")
			return nil, false
		}
		h.logger.Error("failed to get quote", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get quote")
		return nil, false
	}

	return quote, true
}
