package model

import (
	"time"
)

// Cache bounds for a session's local snapshot. The snapshot is a lossy
// cache, not a log: older entries are dropped oldest-first on overflow.
const (
	MaxCachedMessages = 50
	MaxCachedImages   = 5
)

// ImageRef records a captured frame that was uploaded to the content store.
type ImageRef struct {
	URL       string    `json:"url"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the persisted state of a session: its identity, the bounded
// recent transcript, and the quote reference once one exists. QuoteID is
// set exactly once, on first successful save.
type Snapshot struct {
	SessionID string     `json:"session_id"`
	QuoteID   string     `json:"quote_id,omitempty"`
	Messages  []Message  `json:"messages"`
	Images    []ImageRef `json:"images"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateSessionResponse is the response for creating a session.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Degraded  bool   `json:"degraded,omitempty"`
}

// SessionStateResponse exposes the current transcript to the UI.
type SessionStateResponse struct {
	SessionID string     `json:"session_id"`
	QuoteID   string     `json:"quote_id,omitempty"`
	Messages  []Message  `json:"messages"`
	Images    []ImageRef `json:"images"`
	Degraded  bool       `json:"degraded,omitempty"`
}

// CaptureImageRequest submits a captured frame for the image pipeline.
// Frame is the base64-encoded still image. Live marks captures that came
// from a continuous live-analysis stream; those skip the per-frame
// analysis turn.
type CaptureImageRequest struct {
	Frame string `json:"frame"`
	Live  bool   `json:"live,omitempty"`
}

// CaptureImageResponse reports the pipeline's side effects in order.
type CaptureImageResponse struct {
	Image            ImageRef `json:"image"`
	UserMessage      *Message `json:"user_message"`
	AssistantMessage *Message `json:"assistant_message,omitempty"`
}
