package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/middleware"
	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/internal/session"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
)

// SessionHandler handles chat session endpoints.
type SessionHandler struct {
	manager *session.Manager
	logger  *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(manager *session.Manager, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  log,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create(r.Context())

	writeJSON(w, http.StatusCreated, &model.CreateSessionResponse{
		SessionID: s.ID(),
		Degraded:  s.Degraded(),
	})
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, s.State())
}

// Close handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.manager.Close(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage handles POST /api/v1/sessions/:id/messages
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userMsg, assistantMsg, err := s.SendMessage(r.Context(), req.Content)
	if err != nil {
		if errors.Is(err, session.ErrSessionClosed) {
			writeError(w, http.StatusGone, "session closed")
			return
		}
		h.logger.Error("failed to send message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	if userMsg == nil {
		// Whitespace-only input is a no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusCreated, &model.SendMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	})
}

// CaptureImage handles POST /api/v1/sessions/:id/images
func (h *SessionHandler) CaptureImage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req model.CaptureImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	frame, err := base64.StdEncoding.DecodeString(req.Frame)
	if err != nil {
		writeError(w, http.StatusBadRequest, "frame must be base64-encoded")
		return
	}

	if err := middleware.ValidateFrame(frame); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.CaptureImage(r.Context(), frame, req.Live)
	if err != nil {
		if errors.Is(err, session.ErrSessionClosed) {
			writeError(w, http.StatusGone, "session closed")
			return
		}
		h.logger.Error("image capture failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to store image")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// SaveQuote handles POST /api/v1/sessions/:id/quote
func (h *SessionHandler) SaveQuote(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	identity := middleware.GetIdentity(r.Context())

	resp, err := s.SaveFinalQuote(r.Context(), identity)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "sign in to save a quote")
		case errors.Is(err, session.ErrSessionClosed):
			writeError(w, http.StatusGone, "session closed")
		default:
			h.logger.Error("failed to save quote", zap.Error(err))
			writeError(w, http.StatusBadGateway, "failed to save quote")
		}
		return
	}

	status := http.StatusCreated
	if resp.Updated {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	s, err := h.manager.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}

	return s, true
}
