package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/quotewise-ai/quoting-platform/internal/model"
)

// KV bucket names for document collections.
const (
	BucketQuotes      = "quotes"
	BucketContractors = "contractors"
	BucketConsumers   = "consumers"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// DocumentStore holds whole-document collections in JetStream KV buckets.
// Writes replace the full document; concurrent editors are resolved
// last-write-wins at the bucket.
type DocumentStore struct {
	quotes      jetstream.KeyValue
	contractors jetstream.KeyValue
	consumers   jetstream.KeyValue
}

// NewDocumentStore ensures the collection buckets exist and returns a
// store over them.
func NewDocumentStore(ctx context.Context, client *Client) (*DocumentStore, error) {
	js := client.JetStream()

	buckets := make(map[string]jetstream.KeyValue, 3)
	for _, name := range []string{BucketQuotes, BucketContractors, BucketConsumers} {
		kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      name,
			Description: "quoting platform " + name + " collection",
			History:     1,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s bucket: %w", name, err)
		}
		buckets[name] = kv
	}

	return &DocumentStore{
		quotes:      buckets[BucketQuotes],
		contractors: buckets[BucketContractors],
		consumers:   buckets[BucketConsumers],
	}, nil
}

// CreateQuote assigns an identifier and persists a new quote document.
// The identifier never changes for the lifetime of the quote.
func (s *DocumentStore) CreateQuote(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	now := time.Now()
	q.ID = uuid.Must(uuid.NewV7()).String()
	q.CreatedAt = now
	q.UpdatedAt = now
	if q.Status == "" {
		q.Status = model.StatusPending
	}
	if q.Images == nil {
		q.Images = []string{}
	}

	if err := putJSON(ctx, s.quotes, q.ID, q); err != nil {
		q.ID = ""
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	return q, nil
}

// UpdateQuote replaces the stored quote document. Last write wins.
func (s *DocumentStore) UpdateQuote(ctx context.Context, q *model.Quote) error {
	if q.ID == "" {
		return errors.New("quote has no identifier")
	}
	q.UpdatedAt = time.Now()
	if err := putJSON(ctx, s.quotes, q.ID, q); err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}
	return nil
}

// GetQuote retrieves a quote by identifier.
func (s *DocumentStore) GetQuote(ctx context.Context, id string) (*model.Quote, error) {
	var q model.Quote
	if err := getJSON(ctx, s.quotes, id, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ListQuotesByOwner returns all quotes owned by the given identity.
func (s *DocumentStore) ListQuotesByOwner(ctx context.Context, identity model.Identity) ([]model.Quote, error) {
	lister, err := s.quotes.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	var quotes []model.Quote
	for key := range lister.Keys() {
		var q model.Quote
		if err := getJSON(ctx, s.quotes, key, &q); err != nil {
			continue
		}
		if ownedBy(&q, identity) {
			quotes = append(quotes, q)
		}
	}

	return quotes, nil
}

func ownedBy(q *model.Quote, identity model.Identity) bool {
	if identity.ConsumerID != "" && q.ConsumerID == identity.ConsumerID {
		return true
	}
	return identity.Email != "" && q.Email == identity.Email
}

// PutContractor creates or replaces a contractor profile keyed by slug.
func (s *DocumentStore) PutContractor(ctx context.Context, c *model.Contractor) error {
	if c.Slug == "" {
		return errors.New("contractor has no slug")
	}
	c.UpdatedAt = time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = c.UpdatedAt
	}
	return putJSON(ctx, s.contractors, c.Slug, c)
}

// GetContractor retrieves a contractor profile by slug.
func (s *DocumentStore) GetContractor(ctx context.Context, slug string) (*model.Contractor, error) {
	var c model.Contractor
	if err := getJSON(ctx, s.contractors, slug, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// PutConsumer creates or replaces a consumer record.
func (s *DocumentStore) PutConsumer(ctx context.Context, c *model.Consumer) error {
	if c.ID == "" {
		return errors.New("consumer has no identifier")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	return putJSON(ctx, s.consumers, c.ID, c)
}

// GetConsumer retrieves a consumer record by identifier.
func (s *DocumentStore) GetConsumer(ctx context.Context, id string) (*model.Consumer, error) {
	var c model.Consumer
	if err := getJSON(ctx, s.consumers, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func putJSON(ctx context.Context, kv jetstream.KeyValue, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if _, err := kv.Put(ctx, key, data); err != nil {
		return err
	}
	return nil
}

func getJSON(ctx context.Context, kv jetstream.KeyValue, key string, v any) error {
	entry, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get document: %w", err)
	}
	if err := json.Unmarshal(entry.Value(), v); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return nil
}
