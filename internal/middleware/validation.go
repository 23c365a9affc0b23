package middleware

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}

// ValidateQuoteID validates a quote ID.
func ValidateQuoteID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid quote ID format")
	}
	return nil
}

// ValidateSlug validates a contractor slug.
func ValidateSlug(slug string) error {
	if len(slug) == 0 || len(slug) > 64 {
		return errors.New("slug must be between 1 and 64 characters")
	}
	if !slugPattern.MatchString(slug) {
		return errors.New("slug must be lowercase letters, digits and hyphens")
	}
	return nil
}

// ValidateFrame validates a captured frame payload.
func ValidateFrame(frame []byte) error {
	if len(frame) == 0 {
		return errors.New("frame cannot be empty")
	}
	if len(frame) > 10*1024*1024 { // 10MB limit
		return errors.New("frame exceeds maximum size")
	}
	return nil
}
