package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quotewise-ai/quoting-platform/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	snap := &model.Snapshot{
		SessionID: "abc-123",
		QuoteID:   "quote-9",
		Messages: []model.Message{
			{ID: "m1", Role: model.RoleUser, Content: "hello"},
			{ID: "m2", Role: model.RoleAssistant, Content: "hi there", ResponseTo: "m1"},
		},
		Images: []model.ImageRef{
			{URL: "http://media.test/1-abc-123", Name: "1-abc-123"},
		},
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, "abc-123")
	require.NoError(t, err)
	require.Equal(t, snap.SessionID, loaded.SessionID)
	require.Equal(t, snap.QuoteID, loaded.QuoteID)
	require.Len(t, loaded.Messages, 2)
	require.Equal(t, "hi there", loaded.Messages[1].Content)
	require.Equal(t, "m1", loaded.Messages[1].ResponseTo)
	require.Len(t, loaded.Images, 1)
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := &model.Snapshot{
		SessionID: "abc-123",
		Messages:  []model.Message{{ID: "m1", Role: model.RoleUser, Content: "old"}},
	}
	require.NoError(t, store.Save(ctx, first))

	second := &model.Snapshot{
		SessionID: "abc-123",
		QuoteID:   "quote-1",
		Messages:  []model.Message{{ID: "m2", Role: model.RoleUser, Content: "new"}},
	}
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx, "abc-123")
	require.NoError(t, err)
	require.Equal(t, "quote-1", loaded.QuoteID)
	require.Len(t, loaded.Messages, 1)
	require.Equal(t, "new", loaded.Messages[0].Content)
}

func TestSQLiteStoreMissingSnapshot(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Load(context.Background(), "never-saved")
	require.ErrorIs(t, err, ErrNoSnapshot)
}
