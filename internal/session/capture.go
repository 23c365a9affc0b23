package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/pkg/metrics"
)

// CaptureImage runs the image pipeline for a captured frame. Side effect
// order is fixed: upload, image reference, user message, then (unless the
// capture came from a live-analysis stream) an analysis request whose
// result becomes an assistant message. Stages after the upload do not roll
// back; a later failure leaves the uploaded URL recorded.
func (s *Session) CaptureImage(ctx context.Context, frame []byte, live bool) (*model.CaptureImageResponse, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty frame")
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.mu.Unlock()

	// Name derived from timestamp and session id; collisions are treated
	// as negligible.
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), s.id)

	url, err := s.mgr.bridge.UploadImage(ctx, name, frame)
	if err != nil {
		return nil, fmt.Errorf("uploading frame: %w", err)
	}

	ref := model.ImageRef{
		URL:       url,
		Name:      name,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.images = append(s.images, ref)
	if over := len(s.images) - model.MaxCachedImages; over > 0 {
		s.images = s.images[over:]
		metrics.CacheEvictions.WithLabelValues("image").Add(float64(over))
	}
	s.mu.Unlock()
	s.persist(ctx)

	userMsg := s.AddMessage(ctx, model.Message{
		Role:     model.RoleUser,
		Content:  "I captured a photo of the issue.",
		ImageURL: url,
	})

	resp := &model.CaptureImageResponse{
		Image:       ref,
		UserMessage: userMsg,
	}

	if live {
		return resp, nil
	}

	analysis, err := s.mgr.bridge.AnalyzeImage(ctx, frame)
	if err != nil {
		s.log.Warn("image analysis failed", zap.Error(err))
		resp.AssistantMessage = s.AddMessage(ctx, model.Message{
			Role:       model.RoleAssistant,
			Content:    "I couldn't analyze that photo. You can describe the problem instead.",
			ResponseTo: messageID(userMsg),
		})
		return resp, nil
	}

	s.mu.Lock()
	s.pendingVision = analysis
	s.mu.Unlock()

	resp.AssistantMessage = s.AddMessage(ctx, model.Message{
		Role:       model.RoleAssistant,
		Content:    analysis,
		ImageURL:   url,
		Context:    analysis,
		ResponseTo: messageID(userMsg),
	})

	return resp, nil
}

func messageID(m *model.Message) string {
	if m == nil {
		return ""
	}
	return m.ID
}
