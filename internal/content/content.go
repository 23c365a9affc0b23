// Package content provides durable storage for captured frames.
package content

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/quotewise-ai/quoting-platform/internal/store"
)

// BucketMedia is the object store bucket for uploaded frames.
const BucketMedia = "media"

// Store accepts encoded images and returns durable fetchable URLs. Blobs
// live in a JetStream object store; the returned URLs resolve through the
// API's /media route.
type Store struct {
	objects jetstream.ObjectStore
	baseURL string
}

// NewStore ensures the media bucket exists and returns a content store
// whose URLs are rooted at baseURL.
func NewStore(ctx context.Context, client *store.Client, baseURL string) (*Store, error) {
	objects, err := client.JetStream().CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      BucketMedia,
		Description: "captured frames",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create media bucket: %w", err)
	}

	return &Store{
		objects: objects,
		baseURL: baseURL,
	}, nil
}

// Upload stores an encoded image under the given name and returns its
// durable URL. Names are expected to be collision-free by construction;
// an existing object under the same name is overwritten.
func (s *Store) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if _, err := s.objects.PutBytes(ctx, name, data); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return s.baseURL + "/media/" + url.PathEscape(name), nil
}

// Fetch retrieves a stored image by name.
func (s *Store) Fetch(ctx context.Context, name string) ([]byte, error) {
	data, err := s.objects.GetBytes(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	return data, nil
}
