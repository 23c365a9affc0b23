package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []QuoteStatus{StatusPending, StatusInProgress, StatusQuoteSent, StatusClosed} {
		assert.True(t, ValidStatus(s), string(s))
	}

	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("done"))
	assert.False(t, ValidStatus("PENDING"))
}
