package middleware

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateMessageContent(t *testing.T) {
	assert.NoError(t, ValidateMessageContent("my sink is leaking"))
	assert.Error(t, ValidateMessageContent(""))
	assert.Error(t, ValidateMessageContent(strings.Repeat("a", 100001)))
	assert.Error(t, ValidateMessageContent("bad\xff\xfe"))
}

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, ValidateSessionID(uuid.New().String()))
	assert.Error(t, ValidateSessionID("not-a-uuid"))
	assert.Error(t, ValidateSessionID(""))
}

func TestValidateSlug(t *testing.T) {
	assert.NoError(t, ValidateSlug("acme-plumbing"))
	assert.NoError(t, ValidateSlug("a1"))
	assert.Error(t, ValidateSlug(""))
	assert.Error(t, ValidateSlug("Acme"))
	assert.Error(t, ValidateSlug("-leading"))
	assert.Error(t, ValidateSlug("trailing-"))
	assert.Error(t, ValidateSlug("has spaces"))
	assert.Error(t, ValidateSlug(strings.Repeat("a", 65)))
}

func TestValidateFrame(t *testing.T) {
	assert.NoError(t, ValidateFrame([]byte("jpeg bytes")))
	assert.Error(t, ValidateFrame(nil))
	assert.Error(t, ValidateFrame(make([]byte, 10*1024*1024+1)))
}
