// Package bridge is the typed façade over the platform's remote services:
// the inference endpoint, the document store, and the content store.
package bridge

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/content"
	"github.com/quotewise-ai/quoting-platform/internal/llm"
	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/internal/store"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
	"github.com/quotewise-ai/quoting-platform/pkg/metrics"
)

// asyncAppendTimeout bounds best-effort appends, which run detached from
// the caller's context.
const asyncAppendTimeout = 30 * time.Second

// Bridge translates conversation events into remote calls. It performs no
// retries; failures are returned as error values and left to the caller.
type Bridge struct {
	inference llm.Client
	documents *store.DocumentStore
	messages  *store.MessageLog
	content   *content.Store
	logger    *logger.Logger
}

// New creates a bridge over the given collaborators.
func New(
	inference llm.Client,
	documents *store.DocumentStore,
	messages *store.MessageLog,
	contentStore *content.Store,
	log *logger.Logger,
) *Bridge {
	return &Bridge{
		inference: inference,
		documents: documents,
		messages:  messages,
		content:   contentStore,
		logger:    log,
	}
}

const systemContext = "You are a contractor-quoting assistant. Ask focused questions " +
	"about the customer's home-repair problem and keep replies short and practical."

// Complete sends the running transcript to the inference endpoint and
// returns the reply text. A vision summary, when present, is injected as
// leading context.
func (b *Bridge) Complete(ctx context.Context, transcript []model.Message, visionContext string) (string, error) {
	start := time.Now()

	msgs := make([]llm.ChatMessage, 0, len(transcript)+2)
	msgs = append(msgs, llm.ChatMessage{Role: "user", Content: systemContext})
	if visionContext != "" {
		msgs = append(msgs, llm.ChatMessage{
			Role:    "user",
			Content: "Context from an uploaded photo: " + visionContext,
		})
	}
	for _, m := range transcript {
		msgs = append(msgs, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := b.inference.Complete(ctx, &llm.CompletionRequest{Messages: msgs})
	if err != nil {
		metrics.RecordInference("complete", "error", time.Since(start).Seconds())
		return "", err
	}

	metrics.RecordInference("complete", "success", time.Since(start).Seconds())
	metrics.RecordTokens(resp.Model, resp.TokensIn, resp.TokensOut)
	return resp.Content, nil
}

// Summarize condenses the transcript into an issue summary.
func (b *Bridge) Summarize(ctx context.Context, transcript []model.Message) (string, error) {
	start := time.Now()

	msgs := make([]llm.ChatMessage, len(transcript))
	for i, m := range transcript {
		msgs[i] = llm.ChatMessage{Role: string(m.Role), Content: m.Content}
	}

	summary, err := llm.Summarize(ctx, b.inference, msgs)
	if err != nil {
		metrics.RecordInference("summarize", "error", time.Since(start).Seconds())
		return "", err
	}

	metrics.RecordInference("summarize", "success", time.Since(start).Seconds())
	return summary, nil
}

// AnalyzeImage requests a structured description of a captured frame.
func (b *Bridge) AnalyzeImage(ctx context.Context, image []byte) (string, error) {
	start := time.Now()

	result, err := b.inference.AnalyzeImage(ctx, image)
	if err != nil {
		metrics.RecordInference("analyze_image", "error", time.Since(start).Seconds())
		return "", err
	}

	metrics.RecordInference("analyze_image", "success", time.Since(start).Seconds())
	return result, nil
}

// UploadImage stores an encoded frame and returns its durable URL.
func (b *Bridge) UploadImage(ctx context.Context, name string, data []byte) (string, error) {
	url, err := b.content.Upload(ctx, name, data)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.ImageUploads.WithLabelValues("success").Inc()
	return url, nil
}

// CreateQuote persists a new quote document and returns it with its
// store-assigned identifier.
func (b *Bridge) CreateQuote(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	return b.documents.CreateQuote(ctx, q)
}

// UpdateQuote replaces the stored quote document.
func (b *Bridge) UpdateQuote(ctx context.Context, q *model.Quote) error {
	return b.documents.UpdateQuote(ctx, q)
}

// GetQuote retrieves a quote document.
func (b *Bridge) GetQuote(ctx context.Context, id string) (*model.Quote, error) {
	return b.documents.GetQuote(ctx, id)
}

// AppendAsync appends a message to a quote's subcollection best-effort.
// It returns immediately; ordering across overlapping appends is not
// guaranteed, and failures are logged rather than reported.
func (b *Bridge) AppendAsync(quoteID string, msg model.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncAppendTimeout)
		defer cancel()

		if _, err := b.messages.Append(ctx, quoteID, &msg); err != nil {
			b.logger.Warn("best-effort message append failed",
				zap.String("quote_id", quoteID),
				zap.Error(err),
			)
		}
	}()
}

// AppendOrdered appends messages to a quote's subcollection strictly in
// order, awaiting each write before issuing the next.
func (b *Bridge) AppendOrdered(ctx context.Context, quoteID string, msgs []model.Message) error {
	for i := range msgs {
		if _, err := b.messages.Append(ctx, quoteID, &msgs[i]); err != nil {
			return err
		}
	}
	return nil
}
