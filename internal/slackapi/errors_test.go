package slackapi

import (
	"errors"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError_RateLimited(t *testing.T) {
	err := &slack.RateLimitedError{RetryAfter: 42 * time.Second}
	te := MapError(err, "")
	require.NotNil(t, te)
	assert.Equal(t, "rate_limited", te.Code)
	assert.True(t, te.Retryable)
	assert.Equal(t, 42, te.RetryAfter)
	assert.Contains(t, te.Error(), "retry after 42 seconds")
}

func TestMapError_ChannelNotFoundSplicesContext(t *testing.T) {
	te := MapError(errors.New("channel_not_found"), "C123")
	require.NotNil(t, te)
	assert.Equal(t, "channel_not_found", te.Code)
	assert.False(t, te.Retryable)
	assert.Contains(t, te.Message, "C123")
}

func TestMapError_UnknownDefaultsSafely(t *testing.T) {
	te := MapError(errors.New("something_weird"), "")
	require.NotNil(t, te)
	assert.Equal(t, "unknown_error", te.Code)
}

func TestMapError_InternalErrorIsRetryable(t *testing.T) {
	te := MapError(errors.New("internal_error"), "")
	require.NotNil(t, te)
	assert.True(t, te.Retryable)
}

func TestMapError_NilReturnsNil(t *testing.T) {
	assert.Nil(t, MapError(nil, ""))
}
