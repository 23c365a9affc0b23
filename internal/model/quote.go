package model

import (
	"time"
)

// QuoteStatus is the fixed set of consumer-settable quote states. There is
// no enforced ordering between them; any value may be set at any time.
type QuoteStatus string

const (
	StatusPending    QuoteStatus = "pending"
	StatusInProgress QuoteStatus = "in_progress"
	StatusQuoteSent  QuoteStatus = "quote_sent"
	StatusClosed     QuoteStatus = "closed"
)

// ValidStatus reports whether s is in the fixed status set.
func ValidStatus(s QuoteStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusQuoteSent, StatusClosed:
		return true
	}
	return false
}

// Quote is the persisted, contractor-visible record summarizing a
// customer's request. The identifier is assigned by the store on creation
// and never changes; re-saving a session updates the same record.
type Quote struct {
	ID             string      `json:"id"`
	Email          string      `json:"email,omitempty"`
	ConsumerID     string      `json:"consumer_id,omitempty"`
	Status         QuoteStatus `json:"status"`
	Issue          string      `json:"issue"`
	ContractorNote string      `json:"contractor_note,omitempty"`
	Images         []string    `json:"images"`
	SessionID      string      `json:"session_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Identity is the authenticated principal attached to a save or quote
// operation, supplied by the identity provider.
type Identity struct {
	Email      string `json:"email"`
	ConsumerID string `json:"consumer_id,omitempty"`
}

// UpdateQuoteRequest carries the consumer/contractor-editable fields.
// Nil pointers leave the stored value untouched.
type UpdateQuoteRequest struct {
	Status         *QuoteStatus `json:"status,omitempty"`
	Issue          *string      `json:"issue,omitempty"`
	ContractorNote *string      `json:"contractor_note,omitempty"`
}

// SaveQuoteResponse is the response for finalizing a session into a quote.
type SaveQuoteResponse struct {
	Quote   *Quote `json:"quote"`
	Updated bool   `json:"updated"`
}

// ListQuotesResponse is the response for listing an owner's quotes.
type ListQuotesResponse struct {
	Quotes []Quote `json:"quotes"`
	Total  int     `json:"total"`
}
