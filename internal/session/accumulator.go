package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/pkg/metrics"
)

// AddMessage validates and appends a conversation turn. Invalid input is
// discarded with a logged diagnostic; no error reaches the caller, since
// malformed messages indicate a caller bug rather than a user action.
// If the session already has a quote, the message is also appended to the
// quote's remote subcollection best-effort.
func (s *Session) AddMessage(ctx context.Context, msg model.Message) *model.Message {
	if msg.Role != model.RoleUser && msg.Role != model.RoleAssistant {
		s.log.Warn("dropping message with invalid role", zap.String("role", string(msg.Role)))
		metrics.MessagesDropped.Inc()
		return nil
	}
	if msg.Content == "" {
		s.log.Warn("dropping message with empty content", zap.String("role", string(msg.Role)))
		metrics.MessagesDropped.Inc()
		return nil
	}

	msg.ID = uuid.New().String()
	msg.SessionID = s.id
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.messages = append(s.messages, msg)
	if over := len(s.messages) - model.MaxCachedMessages; over > 0 {
		s.messages = s.messages[over:]
		metrics.CacheEvictions.WithLabelValues("message").Add(float64(over))
	}
	quoteID := s.quoteID
	s.mu.Unlock()

	s.persist(ctx)
	metrics.MessagesTotal.WithLabelValues(string(msg.Role)).Inc()

	if quoteID != "" {
		s.mgr.bridge.AppendAsync(quoteID, msg)
	}

	return &msg
}

// SendMessage is the entry point for a user turn. Whitespace-only input is
// a no-op. The inference call is bounded by the configured timeout; on any
// failure an assistant-role error message is appended, so every user turn
// receives exactly one terminal response.
func (s *Session) SendMessage(ctx context.Context, text string) (*model.Message, *model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, nil, ErrSessionClosed
	}
	s.mu.Unlock()

	userMsg := s.AddMessage(ctx, model.Message{
		Role:    model.RoleUser,
		Content: text,
	})
	if userMsg == nil {
		return nil, nil, nil
	}

	s.mu.Lock()
	transcript := make([]model.Message, len(s.messages))
	copy(transcript, s.messages)
	vision := s.pendingVision
	s.pendingVision = ""
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.mgr.inferenceTimeout)
	defer cancel()

	reply, err := s.mgr.bridge.Complete(callCtx, transcript, vision)
	if err != nil {
		reply = failureReply(err)
		s.log.Warn("inference call failed", zap.Error(err))
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		// Torn down while the call was in flight; drop the result.
		return userMsg, nil, ErrSessionClosed
	}

	assistantMsg := s.AddMessage(ctx, model.Message{
		Role:       model.RoleAssistant,
		Content:    reply,
		ResponseTo: userMsg.ID,
	})

	return userMsg, assistantMsg, nil
}

func failureReply(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Sorry, that took too long and the request timed out. Please try again."
	}
	return "Sorry, something went wrong while answering. Please try again."
}
