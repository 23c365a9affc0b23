package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/pkg/metrics"
)

// SaveFinalQuote summarizes the transcript and persists the quote. It
// requires an authenticated identity; without one it returns
// ErrUnauthorized and performs no remote writes.
//
// The first successful save sets the session's quote reference exactly
// once and persists it in the snapshot, so a later save (including after
// the session was restored from cache) updates the same quote. Only if
// the snapshot itself was lost (degraded mode) does a re-save create a
// second quote; that case is logged, not special-cased.
//
// The transcript is written into the quote's message subcollection with
// the awaited ordered write mode: entries commit strictly in order.
func (s *Session) SaveFinalQuote(ctx context.Context, identity model.Identity) (*model.SaveQuoteResponse, error) {
	if identity.Email == "" && identity.ConsumerID == "" {
		return nil, ErrUnauthorized
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	transcript := make([]model.Message, len(s.messages))
	copy(transcript, s.messages)
	imageURLs := make([]string, len(s.images))
	for i, ref := range s.images {
		imageURLs[i] = ref.URL
	}
	quoteID := s.quoteID
	s.mu.Unlock()

	summary, err := s.mgr.bridge.Summarize(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("summarizing transcript: %w", err)
	}

	var quote *model.Quote
	updated := quoteID != ""

	if updated {
		quote, err = s.mgr.bridge.GetQuote(ctx, quoteID)
		if err != nil {
			return nil, fmt.Errorf("loading quote %s: %w", quoteID, err)
		}
		quote.Issue = summary
		quote.Images = imageURLs
		if err := s.mgr.bridge.UpdateQuote(ctx, quote); err != nil {
			return nil, fmt.Errorf("updating quote: %w", err)
		}
		metrics.QuotesSaved.WithLabelValues("updated").Inc()
	} else {
		quote, err = s.mgr.bridge.CreateQuote(ctx, &model.Quote{
			Email:      identity.Email,
			ConsumerID: identity.ConsumerID,
			Status:     model.StatusPending,
			Issue:      summary,
			Images:     imageURLs,
			SessionID:  s.id,
		})
		if err != nil {
			return nil, fmt.Errorf("creating quote: %w", err)
		}

		// Set the quote reference exactly once and make it durable.
		s.mu.Lock()
		if s.quoteID == "" {
			s.quoteID = quote.ID
		}
		degraded := s.degraded
		s.mu.Unlock()
		s.persist(ctx)

		if degraded {
			s.log.Warn("quote reference not persisted; a re-save after restart will create a new quote",
				zap.String("quote_id", quote.ID))
		}
		metrics.QuotesSaved.WithLabelValues("created").Inc()
	}

	if err := s.mgr.bridge.AppendOrdered(ctx, quote.ID, transcript); err != nil {
		return nil, fmt.Errorf("writing transcript to quote %s: %w", quote.ID, err)
	}

	s.log.Info("quote saved",
		zap.String("quote_id", quote.ID),
		zap.Bool("updated", updated),
		zap.Int("messages", len(transcript)),
	)

	return &model.SaveQuoteResponse{Quote: quote, Updated: updated}, nil
}
