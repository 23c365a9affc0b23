package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quotewise-ai/quoting-platform/internal/model"
)

func TestMessageSubject(t *testing.T) {
	assert.Equal(t, "quote.q-1.msg.user", MessageSubject("q-1", model.RoleUser))
	assert.Equal(t, "quote.q-1.msg.assistant", MessageSubject("q-1", model.RoleAssistant))
}

func TestQuoteFilter(t *testing.T) {
	filter := QuoteFilter("q-1")
	assert.Equal(t, "quote.q-1.msg.>", filter)

	// Filters for different quotes never overlap.
	assert.NotEqual(t, filter, QuoteFilter("q-2"))
}
