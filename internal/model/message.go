// Package model defines data structures for the quoting platform.
package model

import (
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single conversation turn. Messages are immutable
// once created; ordering is insertion order everywhere they are stored.
type Message struct {
	// Identity
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	QuoteID   string `json:"quote_id,omitempty"`

	// Content
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ImageURL references a stored frame this message was created for.
	ImageURL string `json:"image_url,omitempty"`

	// Context carries a vision summary attached to the turn, if any.
	Context string `json:"context,omitempty"`

	// ResponseTo links an assistant message back to the user message it
	// answers.
	ResponseTo string `json:"response_to,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`

	// Sequence is the store-assigned position, populated on read from the
	// message subcollection.
	Sequence uint64 `json:"sequence,omitempty"`
}

// SendMessageRequest is the request to send a user turn.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResponse carries the user turn and its terminal assistant reply.
type SendMessageResponse struct {
	UserMessage      *Message `json:"user_message"`
	AssistantMessage *Message `json:"assistant_message"`
}

// ListMessagesResponse is the response for listing a quote's messages.
type ListMessagesResponse struct {
	Messages     []Message `json:"messages"`
	HasMore      bool      `json:"has_more"`
	LastSequence uint64    `json:"last_sequence"`
}

// AppendMessageRequest appends a message to a saved quote's subcollection.
type AppendMessageRequest struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
