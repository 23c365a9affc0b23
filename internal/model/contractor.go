package model

import (
	"time"
)

// Contractor is the slug-indexed public profile used by white-labeled
// quote links.
type Contractor struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Tagline   string    `json:"tagline,omitempty"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Consumer is an authenticated end user with a role and profile.
type Consumer struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertContractorRequest creates or replaces a contractor profile.
type UpsertContractorRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Tagline string `json:"tagline,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}
