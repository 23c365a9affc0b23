// Package session implements the chat session core: durable session
// identity, the bounded local snapshot cache, the conversation
// accumulator, the image capture pipeline, and the quote finalizer.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quotewise-ai/quoting-platform/internal/model"
	"github.com/quotewise-ai/quoting-platform/pkg/logger"
	"github.com/quotewise-ai/quoting-platform/pkg/metrics"
)

// ErrUnauthorized is returned when an operation requires an authenticated
// identity and none is present.
var ErrUnauthorized = errors.New("authenticated identity required")

// ErrSessionClosed is returned for operations on a torn-down session.
var ErrSessionClosed = errors.New("session closed")

// Bridge is the remote surface the session core needs: inference calls,
// quote documents, the content store, and the two message-write modes.
type Bridge interface {
	Complete(ctx context.Context, transcript []model.Message, visionContext string) (string, error)
	Summarize(ctx context.Context, transcript []model.Message) (string, error)
	AnalyzeImage(ctx context.Context, image []byte) (string, error)
	UploadImage(ctx context.Context, name string, data []byte) (string, error)
	CreateQuote(ctx context.Context, q *model.Quote) (*model.Quote, error)
	GetQuote(ctx context.Context, id string) (*model.Quote, error)
	UpdateQuote(ctx context.Context, q *model.Quote) error
	AppendAsync(quoteID string, msg model.Message)
	AppendOrdered(ctx context.Context, quoteID string, msgs []model.Message) error
}

// Manager owns the active sessions and their snapshot cache. All remote
// collaborators are injected at construction; there is no package-level
// state.
type Manager struct {
	bridge           Bridge
	cache            Store
	logger           *logger.Logger
	inferenceTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. cache may be nil, in which case
// every session runs in degraded (non-persisted) mode.
func NewManager(b Bridge, cache Store, log *logger.Logger, inferenceTimeout time.Duration) *Manager {
	if inferenceTimeout <= 0 {
		inferenceTimeout = 15 * time.Second
	}
	return &Manager{
		bridge:           b,
		cache:            cache,
		logger:           log,
		inferenceTimeout: inferenceTimeout,
		sessions:         make(map[string]*Session),
	}
}

// Session is a single conversation instance. Its identifier is generated
// once and never regenerated mid-lifetime. Mutations are serialized behind
// the mutex; remote calls happen outside it.
type Session struct {
	id  string
	mgr *Manager
	log *logger.Logger

	mu            sync.Mutex
	messages      []model.Message
	images        []model.ImageRef
	quoteID       string
	pendingVision string
	degraded      bool
	closed        bool
}

// Create starts a new session with a fresh identifier and persists its
// initial snapshot.
func (m *Manager) Create(ctx context.Context) *Session {
	s := &Session{
		id:  uuid.New().String(),
		mgr: m,
	}
	s.log = m.logger.WithSession(s.id)

	if m.cache == nil {
		s.degraded = true
	} else {
		s.persist(ctx)
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	s.log.Info("session created", zap.Bool("degraded", s.degraded))
	return s
}

// Get returns the session with the given id, restoring it from the
// snapshot cache if it is not live. A session whose snapshot has aged out
// (or was never persisted) comes back empty under the same identifier.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New("invalid session id")
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	s = &Session{id: id, mgr: m}
	s.log = m.logger.WithSession(id)

	if m.cache == nil {
		s.degraded = true
	} else if snap, err := m.cache.Load(ctx, id); err == nil {
		s.messages = snap.Messages
		s.images = snap.Images
		s.quoteID = snap.QuoteID
	} else if !errors.Is(err, ErrNoSnapshot) {
		s.log.Warn("snapshot load failed, starting empty", zap.Error(err))
		s.degraded = true
		metrics.CacheDegraded.Inc()
	}

	m.mu.Lock()
	if live, ok := m.sessions[id]; ok {
		// Lost the race to another restore; use the live one.
		m.mu.Unlock()
		return live, nil
	}
	m.sessions[id] = s
	m.mu.Unlock()

	return s, nil
}

// Close tears a session down. In-flight operations observe the closed
// flag and stop applying results to shared state.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Degraded reports whether the session is running without persisted
// snapshots.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// State returns the current transcript and image list for the UI.
func (s *Session) State() *model.SessionStateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]model.Message, len(s.messages))
	copy(msgs, s.messages)
	imgs := make([]model.ImageRef, len(s.images))
	copy(imgs, s.images)

	return &model.SessionStateResponse{
		SessionID: s.id,
		QuoteID:   s.quoteID,
		Messages:  msgs,
		Images:    imgs,
		Degraded:  s.degraded,
	}
}

// snapshotLocked builds a persistable snapshot. Callers hold s.mu.
func (s *Session) snapshotLocked() *model.Snapshot {
	msgs := make([]model.Message, len(s.messages))
	copy(msgs, s.messages)
	imgs := make([]model.ImageRef, len(s.images))
	copy(imgs, s.images)

	return &model.Snapshot{
		SessionID: s.id,
		QuoteID:   s.quoteID,
		Messages:  msgs,
		Images:    imgs,
		UpdatedAt: time.Now(),
	}
}

// persist writes the current snapshot. On failure it retries once with a
// truncated payload; if that also fails the session drops to degraded
// mode with a warning and keeps running from memory.
func (s *Session) persist(ctx context.Context) {
	s.mu.Lock()
	if s.degraded {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.mgr.cache == nil {
		return
	}

	err := s.mgr.cache.Save(ctx, snap)
	if err == nil {
		return
	}

	// Retry once with a smaller payload.
	truncated := *snap
	if n := len(truncated.Messages); n > model.MaxCachedMessages/2 {
		truncated.Messages = truncated.Messages[n-model.MaxCachedMessages/2:]
	}
	if n := len(truncated.Images); n > 1 {
		truncated.Images = truncated.Images[n-1:]
	}

	if retryErr := s.mgr.cache.Save(ctx, &truncated); retryErr != nil {
		s.log.Warn("snapshot save failed, continuing without persistence",
			zap.NamedError("first", err),
			zap.NamedError("retry", retryErr),
		)
		metrics.CacheDegraded.Inc()
		s.mu.Lock()
		s.degraded = true
		s.mu.Unlock()
		return
	}

	s.log.Warn("snapshot saved truncated after failure", zap.Error(err))
}
