package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/quotewise-ai/quoting-platform/internal/model"
)

const (
	// StreamName is the name of the quote messages stream.
	StreamName = "QUOTES"

	// SubjectPrefix is the prefix for all quote message subjects.
	SubjectPrefix = "quote"
)

// MessageLog is the per-quote message subcollection, backed by a JetStream
// stream. Appends carry a store-assigned sequence and timestamp; reads
// return messages in stream order.
type MessageLog struct {
	client *Client
}

// NewMessageLog creates a message log over the client's JetStream context.
func NewMessageLog(client *Client) *MessageLog {
	return &MessageLog{client: client}
}

// EnsureStream ensures the quote messages stream exists.
func (l *MessageLog) EnsureStream(ctx context.Context) error {
	js := l.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      365 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Per-quote message subcollections",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// MessageSubject returns the subject for a quote message.
func MessageSubject(quoteID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.msg.%s", SubjectPrefix, quoteID, role)
}

// QuoteFilter returns the filter subject for all messages of a quote.
func QuoteFilter(quoteID string) string {
	return fmt.Sprintf("%s.%s.msg.>", SubjectPrefix, quoteID)
}

// Append publishes a message into a quote's subcollection. The store
// assigns the timestamp and returns the stream sequence.
func (l *MessageLog) Append(ctx context.Context, quoteID string, msg *model.Message) (uint64, error) {
	stored := *msg
	stored.QuoteID = quoteID
	stored.CreatedAt = time.Now()

	data, err := json.Marshal(&stored)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message: %w", err)
	}

	ack, err := l.client.JetStream().Publish(ctx, MessageSubject(quoteID, stored.Role), data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish message: %w", err)
	}

	return ack.Sequence, nil
}

// List retrieves a quote's messages starting after a sequence.
func (l *MessageLog) List(ctx context.Context, quoteID string, afterSequence uint64, limit int) ([]model.Message, uint64, bool, error) {
	js := l.client.JetStream()

	consumerConfig := jetstream.ConsumerConfig{
		FilterSubject: QuoteFilter(quoteID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}

	if afterSequence > 0 {
		consumerConfig.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		consumerConfig.OptStartSeq = afterSequence + 1
	}

	consumer, err := js.CreateConsumer(ctx, StreamName, consumerConfig)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []model.Message
	var lastSequence uint64

	for msg := range batch.Messages() {
		var message model.Message
		if err := json.Unmarshal(msg.Data(), &message); err != nil {
			continue
		}

		if meta, err := msg.Metadata(); err == nil {
			message.Sequence = meta.Sequence.Stream
			lastSequence = meta.Sequence.Stream
		}

		messages = append(messages, message)
	}

	if batch.Error() != nil && batch.Error() != context.DeadlineExceeded {
		return nil, 0, false, fmt.Errorf("batch error: %w", batch.Error())
	}

	hasMore := len(messages) == limit

	return messages, lastSequence, hasMore, nil
}
